package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
	"github.com/dbaops/mysql-sensitive-scanner/internal/demo"
	"github.com/dbaops/mysql-sensitive-scanner/internal/report"
	"github.com/dbaops/mysql-sensitive-scanner/internal/rules"
	"github.com/dbaops/mysql-sensitive-scanner/internal/scanner"
	"github.com/dbaops/mysql-sensitive-scanner/internal/store"
	"github.com/dbaops/mysql-sensitive-scanner/internal/utils"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

func main() {
	var (
		host     string
		user     string
		password string
		database string
		port     string
		envFile  string
		logLevel string

		server   string
		instance string

		rulesFile  string
		exportFile string

		ruleCategory string
		rulePattern  string

		reviewState    string
		reviewer       string
		reviewNotes    string
		reviewSchema   string
		reviewTable    string
		reviewColumn   string
		reviewDatabase string

		demoRecords int
	)

	var logger *logrus.Logger

	// connect builds a connector from flags/env and opens the connection
	connect := func() (*connector.DatabaseConnector, error) {
		if host == "" {
			host = os.Getenv("MYSQL_HOST")
		}
		if user == "" {
			user = os.Getenv("MYSQL_USER")
		}
		if password == "" {
			password = os.Getenv("MYSQL_PASSWORD")
		}
		if database == "" {
			database = os.Getenv("MYSQL_DATABASE")
		}
		if port == "" {
			port = os.Getenv("MYSQL_PORT")
			if port == "" {
				port = "3306"
			}
		}

		if !utils.ValidateConnectionParams(host, user, password, database, port, logger) {
			return nil, fmt.Errorf("invalid connection parameters")
		}

		db := connector.NewDatabaseConnector(host, user, password, database, port, logger)
		if err := db.Connect(); err != nil {
			return nil, err
		}
		return db, nil
	}

	rootCmd := &cobra.Command{
		Use:   "sensitive-scanner",
		Short: "A tool to inventory and classify sensitive columns across MySQL databases",
		Long: `MySQL Sensitive Column Scanner

Inventories database columns from the catalog, classifies them against an
administrator-editable table of sensitive-data patterns, and tracks findings
with a human-review workflow and compliance reporting.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = utils.SetupLogging(logLevel)
			utils.LoadEnvironmentVariables(envFile, logger)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "MySQL host (default: localhost)")
	rootCmd.PersistentFlags().StringVarP(&user, "user", "u", "", "MySQL user (default: root)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "MySQL password")
	rootCmd.PersistentFlags().StringVarP(&database, "database", "d", "", "MySQL database name")
	rootCmd.PersistentFlags().StringVarP(&port, "port", "P", "", "MySQL port (default: 3306)")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a database and record sensitive-column findings",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			findingStore := store.NewFindingStore(db, logger)
			if err := findingStore.EnsureSchema(); err != nil {
				logger.Errorf("Failed to ensure inventory schema: %v", err)
				os.Exit(1)
			}

			if err := findingStore.RecordConnectionSuccess(server, instance); err != nil {
				logger.Warningf("Could not update instance health: %v", err)
			}

			ruleStore := rules.NewRuleStore(db, logger)
			ruleSet, err := ruleStore.LoadActive()
			if err != nil {
				logger.Errorf("Failed to load rules: %v", err)
				os.Exit(1)
			}
			if len(ruleSet) == 0 {
				logger.Error("No active rules found; run 'sensitive-scanner seed-rules' first")
				os.Exit(1)
			}

			columnScanner := scanner.NewColumnScanner(db, findingStore, ruleSet, server, instance, logger)
			summary, err := columnScanner.ScanDatabase(database)
			if err != nil {
				if healthErr := findingStore.RecordConnectionFailure(server, instance, err.Error()); healthErr != nil {
					logger.Warningf("Could not update instance health: %v", healthErr)
				}
				logger.Errorf("Scan failed: %v", err)
				os.Exit(1)
			}

			utils.PrintScanSummary(summary)

			if summary.ErroredColumns > 0 {
				os.Exit(1)
			}
		},
	}
	scanCmd.Flags().StringVarP(&server, "server", "s", "localhost", "Logical server label for the finding identity key")
	scanCmd.Flags().StringVarP(&instance, "instance", "i", "DEFAULT", "Instance label for the finding identity key")

	seedCmd := &cobra.Command{
		Use:   "seed-rules",
		Short: "Seed the sensitive-pattern rule table",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			findingStore := store.NewFindingStore(db, logger)
			if err := findingStore.EnsureSchema(); err != nil {
				logger.Errorf("Failed to ensure inventory schema: %v", err)
				os.Exit(1)
			}

			ruleSet := rules.StarterRules()
			if rulesFile != "" {
				ruleSet, err = rules.LoadRuleFile(rulesFile)
				if err != nil {
					logger.Errorf("Failed to load rule file: %v", err)
					os.Exit(1)
				}
				logger.Infof("Loaded %d rules from %s", len(ruleSet), rulesFile)
			}

			ruleStore := rules.NewRuleStore(db, logger)
			if _, err := ruleStore.Seed(ruleSet); err != nil {
				logger.Errorf("Failed to seed rules: %v", err)
				os.Exit(1)
			}

			if exportFile != "" {
				active, err := ruleStore.LoadActive()
				if err != nil {
					logger.Errorf("Failed to load rules for export: %v", err)
					os.Exit(1)
				}
				if err := rules.SaveRuleFile(exportFile, active); err != nil {
					logger.Errorf("Failed to export rules: %v", err)
					os.Exit(1)
				}
				logger.Infof("Exported %d active rules to %s", len(active), exportFile)
			}
		},
	}
	seedCmd.Flags().StringVarP(&rulesFile, "file", "f", "", "YAML rule file to seed from instead of the starter set")
	seedCmd.Flags().StringVarP(&exportFile, "export", "x", "", "Export the active rule set to a YAML file after seeding")

	deactivateCmd := &cobra.Command{
		Use:   "deactivate-rule",
		Short: "Mark one sensitive-pattern rule inactive without deleting it",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			ruleStore := rules.NewRuleStore(db, logger)
			if err := ruleStore.Deactivate(ruleCategory, rulePattern); err != nil {
				logger.Errorf("Failed to deactivate rule: %v", err)
				os.Exit(1)
			}
		},
	}
	deactivateCmd.Flags().StringVar(&ruleCategory, "category", "", "Category of the rule to deactivate")
	deactivateCmd.Flags().StringVar(&rulePattern, "pattern", "", "Pattern name of the rule to deactivate")
	deactivateCmd.MarkFlagRequired("category")
	deactivateCmd.MarkFlagRequired("pattern")

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Apply a human review decision to one finding",
		Run: func(cmd *cobra.Command, args []string) {
			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			key := models.ColumnKey{
				Server:   server,
				Instance: instance,
				Database: reviewDatabase,
				Schema:   reviewSchema,
				Table:    reviewTable,
				Column:   reviewColumn,
			}

			findingStore := store.NewFindingStore(db, logger)
			err = findingStore.ApplyReview(key, models.ReviewState(reviewState), reviewer, reviewNotes)
			if err != nil {
				logger.Errorf("Failed to apply review: %v", err)
				os.Exit(1)
			}
		},
	}
	reviewCmd.Flags().StringVarP(&server, "server", "s", "localhost", "Server label of the finding")
	reviewCmd.Flags().StringVarP(&instance, "instance", "i", "DEFAULT", "Instance label of the finding")
	reviewCmd.Flags().StringVar(&reviewDatabase, "finding-database", "", "Database of the finding")
	reviewCmd.Flags().StringVar(&reviewSchema, "schema", "", "Schema of the finding")
	reviewCmd.Flags().StringVar(&reviewTable, "table", "", "Table of the finding")
	reviewCmd.Flags().StringVar(&reviewColumn, "column", "", "Column of the finding")
	reviewCmd.Flags().StringVar(&reviewState, "state", "", "Review decision: ConfirmedSensitive or FalsePositive")
	reviewCmd.Flags().StringVar(&reviewer, "reviewer", "", "Name of the reviewing human")
	reviewCmd.Flags().StringVar(&reviewNotes, "notes", "", "Optional review notes")
	reviewCmd.MarkFlagRequired("finding-database")
	reviewCmd.MarkFlagRequired("schema")
	reviewCmd.MarkFlagRequired("table")
	reviewCmd.MarkFlagRequired("column")
	reviewCmd.MarkFlagRequired("state")
	reviewCmd.MarkFlagRequired("reviewer")

	reportCmd := &cobra.Command{
		Use:   "report [risk|critical|compliance|accuracy|health]",
		Short: "Print read-side reports over recorded findings",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			reporter := report.NewReporter(db, logger)
			findingStore := store.NewFindingStore(db, logger)

			switch args[0] {
			case "risk":
				summary, err := reporter.SummaryByRisk()
				if err != nil {
					os.Exit(1)
				}
				utils.PrintRiskReport(summary)
			case "critical":
				findings, err := reporter.CriticalFindings()
				if err != nil {
					os.Exit(1)
				}
				utils.PrintCriticalFindings(findings)
			case "compliance":
				breakdown, err := reporter.ComplianceBreakdown()
				if err != nil {
					os.Exit(1)
				}
				utils.PrintComplianceReport(breakdown)
			case "accuracy":
				accuracy, err := reporter.PatternAccuracy()
				if err != nil {
					os.Exit(1)
				}
				utils.PrintPatternAccuracy(accuracy)
			case "health":
				health, err := findingStore.ListInstanceHealth()
				if err != nil {
					os.Exit(1)
				}
				utils.PrintInstanceHealth(health)
			default:
				logger.Errorf("Unknown report type: %s", args[0])
				os.Exit(1)
			}
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Create demo tables with fake sensitive data to scan",
		Run: func(cmd *cobra.Command, args []string) {
			// The flag wins; otherwise SCANNER_DEMO_RECORDS (possibly from
			// the .env file) overrides the default
			if !cmd.Flags().Changed("records") {
				demoRecords = utils.GetEnvInt("SCANNER_DEMO_RECORDS", demoRecords)
			}

			db, err := connect()
			if err != nil {
				logger.Errorf("Failed to connect to database: %v", err)
				os.Exit(1)
			}
			defer db.Disconnect()

			seeder := demo.NewDemoSeeder(db, logger)
			if err := seeder.Seed(demoRecords); err != nil {
				logger.Errorf("Failed to seed demo data: %v", err)
				os.Exit(1)
			}
		},
	}
	demoCmd.Flags().IntVarP(&demoRecords, "records", "r", 25, "Number of fake rows per demo table (env: SCANNER_DEMO_RECORDS)")

	rootCmd.AddCommand(scanCmd, seedCmd, deactivateCmd, reviewCmd, reportCmd, demoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
