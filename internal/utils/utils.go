package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// SetupLogging configures the logging system
func SetupLogging(logLevel string) *logrus.Logger {
	logger := logrus.New()

	// Get log level from environment variable or parameter
	levelStr := logLevel
	if levelStr == "" {
		levelStr = os.Getenv("SCANNER_LOG_LEVEL")
		if levelStr == "" {
			levelStr = "info"
		}
	}

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)

	return logger
}

// LoadEnvironmentVariables loads environment variables from a .env file
func LoadEnvironmentVariables(envFile string, logger *logrus.Logger) bool {
	// Load environment variables from .env file if it exists
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			logger.Warningf("Error loading %s file: %v", envFile, err)
		} else {
			logger.Infof("Loaded environment variables from %s", envFile)
		}
	} else {
		logger.Debugf("No %s file found, using existing environment variables", envFile)
	}

	// Check for required environment variables
	requiredVars := []string{"MYSQL_HOST", "MYSQL_USER", "MYSQL_PASSWORD", "MYSQL_DATABASE"}
	var missingVars []string

	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missingVars = append(missingVars, v)
		}
	}

	if len(missingVars) > 0 {
		logger.Warningf("Missing required environment variables: %s", strings.Join(missingVars, ", "))
		logger.Info("These can be provided via command line arguments, environment variables, or a .env file")
		return false
	}

	return true
}

// GetEnvInt gets an integer value from an environment variable
func GetEnvInt(varName string, defaultValue int) int {
	value := os.Getenv(varName)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// ValidateConnectionParams validates database connection parameters
func ValidateConnectionParams(host, user, password, database, port string, logger *logrus.Logger) bool {
	if host == "" {
		logger.Error("Database host is required")
		return false
	}

	if user == "" {
		logger.Error("Database user is required")
		return false
	}

	if password == "" { // Empty password is allowed
		logger.Warning("Database password is empty")
	}

	if database == "" {
		logger.Error("Database name is required")
		return false
	}

	if _, err := strconv.Atoi(port); err != nil {
		logger.Errorf("Invalid port number: %s", port)
		return false
	}

	return true
}

// PrintScanSummary prints a summary of one scan pass
func PrintScanSummary(summary *models.ScanSummary) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SENSITIVE COLUMN SCAN SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Run ID:            %s\n", summary.RunID)
	fmt.Printf("Target:            %s/%s database %s\n", summary.Server, summary.Instance, summary.Database)
	fmt.Printf("Columns examined:  %d\n", summary.ColumnsExamined)
	fmt.Printf("Findings recorded: %d\n", summary.FindingsRecorded)
	fmt.Printf("Errored columns:   %d\n", summary.ErroredColumns)
	fmt.Printf("Duration:          %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))

	if len(summary.ByRisk) > 0 {
		fmt.Println("\nFindings by risk level:")
		for _, risk := range []models.RiskLevel{models.RiskCritical, models.RiskHigh, models.RiskMedium, models.RiskLow} {
			if count := summary.ByRisk[risk]; count > 0 {
				fmt.Printf("  %-8s %d\n", risk, count)
			}
		}
	}

	fmt.Println(strings.Repeat("=", 60))
}

// PrintRiskReport prints the risk-level summary report
func PrintRiskReport(summary []models.RiskSummaryRow) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("FINDINGS BY RISK LEVEL")
	fmt.Println(strings.Repeat("=", 60))

	if len(summary) == 0 {
		fmt.Println("No findings recorded yet")
		fmt.Println(strings.Repeat("=", 60))
		return
	}

	fmt.Printf("%-10s %8s %10s %16s\n", "Risk", "Total", "Confirmed", "False positives")
	for _, row := range summary {
		fmt.Printf("%-10s %8d %10d %16d\n", row.RiskLevel, row.Total, row.Confirmed, row.FalsePositives)
	}

	fmt.Println(strings.Repeat("=", 60))
}

// PrintCriticalFindings prints the critical-findings rollup
func PrintCriticalFindings(findings []models.ColumnFinding) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("CRITICAL FINDINGS")
	fmt.Println(strings.Repeat("=", 80))

	if len(findings) == 0 {
		fmt.Println("No critical findings")
		fmt.Println(strings.Repeat("=", 80))
		return
	}

	for i, f := range findings {
		fmt.Printf("%3d. %s/%s %s.%s.%s.%s (%s)\n", i+1,
			f.Key.Server, f.Key.Instance, f.Key.Database, f.Key.Schema, f.Key.Table, f.Key.Column,
			f.DeclaredType)
		fmt.Printf("     %s / %s  compliance: %s  review: %s\n",
			f.MatchedCategory, f.MatchedPattern, strings.Join(f.MatchedCompliance, ", "), f.ReviewState)
	}

	fmt.Println(strings.Repeat("=", 80))
}

// PrintComplianceReport prints the compliance-framework breakdown
func PrintComplianceReport(breakdown []models.ComplianceRow) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("FINDINGS BY COMPLIANCE FRAMEWORK")
	fmt.Println(strings.Repeat("=", 60))

	if len(breakdown) == 0 {
		fmt.Println("No findings recorded yet")
		fmt.Println(strings.Repeat("=", 60))
		return
	}

	fmt.Printf("%-12s %10s %12s\n", "Framework", "Findings", "Databases")
	for _, row := range breakdown {
		fmt.Printf("%-12s %10d %12d\n", row.Framework, row.Findings, row.Databases)
	}

	fmt.Println(strings.Repeat("=", 60))
}

// PrintPatternAccuracy prints the per-pattern false-positive report
func PrintPatternAccuracy(accuracy []models.PatternAccuracyRow) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("FALSE-POSITIVE RATE BY PATTERN")
	fmt.Println(strings.Repeat("=", 70))

	if len(accuracy) == 0 {
		fmt.Println("No findings recorded yet")
		fmt.Println(strings.Repeat("=", 70))
		return
	}

	fmt.Printf("%-14s %-24s %8s %6s %8s\n", "Category", "Pattern", "Total", "FP", "FP rate")
	for _, row := range accuracy {
		fmt.Printf("%-14s %-24s %8d %6d %7.1f%%\n",
			row.Category, row.PatternName, row.Total, row.FalsePositives, row.FalsePositiveRate*100)
	}

	fmt.Println(strings.Repeat("=", 70))
}

// PrintInstanceHealth prints the derived health tag per monitored instance
func PrintInstanceHealth(health []models.InstanceHealth) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("INSTANCE HEALTH")
	fmt.Println(strings.Repeat("=", 70))

	if len(health) == 0 {
		fmt.Println("No instances tracked yet")
		fmt.Println(strings.Repeat("=", 70))
		return
	}

	for _, h := range health {
		lastSuccess := "never"
		if h.LastSuccessfulCheck != nil {
			lastSuccess = h.LastSuccessfulCheck.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-30s %-8s failures: %d  last success: %s\n",
			h.Server+"/"+h.Instance, h.HealthTag(), h.ConsecutiveFailures, lastSuccess)
		if h.LastFailureMessage != "" {
			fmt.Printf("%32s %s\n", "last error:", h.LastFailureMessage)
		}
	}

	fmt.Println(strings.Repeat("=", 70))
}
