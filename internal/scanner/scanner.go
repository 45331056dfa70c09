package scanner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/internal/classifier"
	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
	"github.com/dbaops/mysql-sensitive-scanner/internal/store"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// systemSchemas are catalog schemas that never hold user data
var systemSchemas = map[string]bool{
	"information_schema": true,
	"mysql":              true,
	"performance_schema": true,
	"sys":                true,
}

// inventoryTables are the scanner's own tables. They live in the scanned
// database and their column names (name_tokens, type_tokens) would classify
// against the rule set, so enumeration skips them.
var inventoryTables = map[string]bool{
	"sensitive_patterns": true,
	"column_findings":    true,
	"instance_health":    true,
}

// ColumnScanner walks the catalog of one monitored instance, classifies every
// user column against the loaded rule snapshot, and records findings
type ColumnScanner struct {
	DB       *connector.DatabaseConnector
	Store    *store.FindingStore
	Rules    []models.SensitivePattern
	Server   string
	Instance string
	Logger   *logrus.Logger
}

// NewColumnScanner creates a new column scanner. The rule slice is the
// immutable snapshot used for the whole scan pass.
func NewColumnScanner(
	db *connector.DatabaseConnector,
	findingStore *store.FindingStore,
	ruleSet []models.SensitivePattern,
	server, instance string,
	logger *logrus.Logger,
) *ColumnScanner {
	return &ColumnScanner{
		DB:       db,
		Store:    findingStore,
		Rules:    ruleSet,
		Server:   server,
		Instance: instance,
		Logger:   logger,
	}
}

// EnumerateColumns lists all non-system columns of one database from the
// catalog, one observation per column
func (cs *ColumnScanner) EnumerateColumns(database string) ([]models.ColumnObservation, error) {
	if systemSchemas[database] {
		return nil, fmt.Errorf("refusing to scan system schema %s", database)
	}

	columnsQuery := `
		SELECT
			table_schema,
			table_name,
			column_name,
			column_type
		FROM information_schema.columns
		WHERE table_schema = ?
		ORDER BY table_name, ordinal_position
	`
	result, err := cs.DB.ExecuteQuery(columnsQuery, database)
	if err != nil {
		cs.Logger.Errorf("Error enumerating columns for %s: %v", database, err)
		return nil, err
	}

	var observations []models.ColumnObservation
	for _, row := range result {
		if inventoryTables[row["table_name"].(string)] {
			continue
		}
		observations = append(observations, models.ColumnObservation{
			Schema:       row["table_schema"].(string),
			Table:        row["table_name"].(string),
			Column:       row["column_name"].(string),
			DeclaredType: row["column_type"].(string),
		})
	}

	cs.Logger.Infof("Enumerated %d columns in database %s", len(observations), database)
	return observations, nil
}

// ScanDatabase classifies every column of one database and upserts the
// sensitive ones. A failed upsert for one column is logged and counted but
// never aborts the remaining columns.
func (cs *ColumnScanner) ScanDatabase(database string) (*models.ScanSummary, error) {
	summary := &models.ScanSummary{
		RunID:     uuid.New().String(),
		Server:    cs.Server,
		Instance:  cs.Instance,
		Database:  database,
		ByRisk:    make(map[models.RiskLevel]int),
		StartedAt: time.Now(),
	}

	observations, err := cs.EnumerateColumns(database)
	if err != nil {
		return nil, err
	}

	cs.Logger.Infof("Scan %s: classifying %d columns against %d rules",
		summary.RunID, len(observations), len(cs.Rules))

	for _, obs := range observations {
		summary.ColumnsExamined++

		classification, err := classifier.Classify(obs.Column, obs.DeclaredType, cs.Rules)
		if err != nil {
			cs.Logger.Warningf("Skipping column %s.%s.%s: %v", obs.Schema, obs.Table, obs.Column, err)
			summary.ErroredColumns++
			continue
		}
		if classification == nil {
			continue
		}

		key := models.ColumnKey{
			Server:   cs.Server,
			Instance: cs.Instance,
			Database: database,
			Schema:   obs.Schema,
			Table:    obs.Table,
			Column:   obs.Column,
		}

		if err := cs.Store.RecordFinding(key, obs.DeclaredType, classification); err != nil {
			cs.Logger.Errorf("Failed to record finding for %s.%s.%s: %v",
				obs.Schema, obs.Table, obs.Column, err)
			summary.ErroredColumns++
			continue
		}

		summary.FindingsRecorded++
		summary.ByRisk[classification.RiskLevel]++
		cs.Logger.Debugf("Column %s.%s.%s classified as %s/%s (%s)",
			obs.Schema, obs.Table, obs.Column,
			classification.Category, classification.PatternName, classification.RiskLevel)
	}

	summary.FinishedAt = time.Now()
	cs.Logger.Infof("Scan %s finished: %d columns, %d findings, %d errors",
		summary.RunID, summary.ColumnsExamined, summary.FindingsRecorded, summary.ErroredColumns)
	return summary, nil
}
