package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
	"github.com/dbaops/mysql-sensitive-scanner/internal/rules"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// ErrFindingNotFound is returned when a review targets an identity key with
// no stored finding
var ErrFindingNotFound = errors.New("no finding exists for the given column")

// FindingStore persists column findings and instance health in the inventory
// database
type FindingStore struct {
	DB     *connector.DatabaseConnector
	Logger *logrus.Logger
}

// NewFindingStore creates a new finding store
func NewFindingStore(db *connector.DatabaseConnector, logger *logrus.Logger) *FindingStore {
	return &FindingStore{
		DB:     db,
		Logger: logger,
	}
}

// EnsureSchema creates the inventory tables if they do not exist yet
func (fs *FindingStore) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sensitive_patterns (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			category VARCHAR(64) NOT NULL,
			pattern_name VARCHAR(128) NOT NULL,
			name_tokens VARCHAR(512) NOT NULL,
			type_tokens VARCHAR(256) NOT NULL DEFAULT '',
			risk_level VARCHAR(16) NOT NULL,
			compliance_tags VARCHAR(256) NOT NULL DEFAULT '',
			active TINYINT(1) NOT NULL DEFAULT 1,
			UNIQUE KEY uq_pattern (category, pattern_name)
		)`,
		`CREATE TABLE IF NOT EXISTS column_findings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			server_name VARCHAR(128) NOT NULL,
			instance_name VARCHAR(128) NOT NULL,
			database_name VARCHAR(128) NOT NULL,
			schema_name VARCHAR(128) NOT NULL,
			table_name VARCHAR(128) NOT NULL,
			column_name VARCHAR(128) NOT NULL,
			declared_type VARCHAR(128) NOT NULL,
			matched_category VARCHAR(64),
			matched_pattern VARCHAR(128),
			matched_risk VARCHAR(16),
			matched_compliance VARCHAR(256),
			detected_at DATETIME NOT NULL,
			review_state VARCHAR(32) NOT NULL DEFAULT 'Unreviewed',
			reviewer VARCHAR(128),
			reviewed_at DATETIME,
			notes TEXT,
			UNIQUE KEY uq_column_identity
				(server_name, instance_name, database_name, schema_name, table_name, column_name)
		)`,
		`CREATE TABLE IF NOT EXISTS instance_health (
			server_name VARCHAR(128) NOT NULL,
			instance_name VARCHAR(128) NOT NULL,
			consecutive_failures INT NOT NULL DEFAULT 0,
			last_successful_check DATETIME,
			last_failure_message VARCHAR(512),
			PRIMARY KEY (server_name, instance_name)
		)`,
	}

	for _, stmt := range statements {
		if _, err := fs.DB.ExecuteStatement(stmt); err != nil {
			fs.Logger.Errorf("Error creating inventory schema: %v", err)
			return err
		}
	}

	fs.Logger.Info("Inventory schema is in place")
	return nil
}

// RecordFinding upserts one classified column. Columns that did not classify
// as sensitive are never written. On re-scan of an existing identity key the
// classification fields and detection timestamp are refreshed while the
// review fields stay untouched.
func (fs *FindingStore) RecordFinding(key models.ColumnKey, declaredType string, classification *models.Classification) error {
	if classification == nil {
		return nil
	}

	query := `
		INSERT INTO column_findings
			(server_name, instance_name, database_name, schema_name, table_name, column_name,
			 declared_type, matched_category, matched_pattern, matched_risk, matched_compliance,
			 detected_at, review_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), 'Unreviewed')
		ON DUPLICATE KEY UPDATE
			declared_type = VALUES(declared_type),
			matched_category = VALUES(matched_category),
			matched_pattern = VALUES(matched_pattern),
			matched_risk = VALUES(matched_risk),
			matched_compliance = VALUES(matched_compliance),
			detected_at = NOW()
	`
	_, err := fs.DB.ExecuteStatement(query,
		key.Server,
		key.Instance,
		key.Database,
		key.Schema,
		key.Table,
		key.Column,
		declaredType,
		classification.Category,
		classification.PatternName,
		string(classification.RiskLevel),
		rules.JoinTokens(classification.ComplianceTags),
	)
	if err != nil {
		fs.Logger.Errorf("Error recording finding for %s.%s.%s: %v",
			key.Database, key.Table, key.Column, err)
		return err
	}

	return nil
}

// ApplyReview records a human review decision on an existing finding. The
// review state, reviewer and review timestamp change in one statement; the
// scanner-owned classification fields are left alone.
func (fs *FindingStore) ApplyReview(key models.ColumnKey, state models.ReviewState, reviewer, notes string) error {
	if state != models.ReviewConfirmedSensitive && state != models.ReviewFalsePositive {
		return fmt.Errorf("invalid review state %q: must be %s or %s",
			state, models.ReviewConfirmedSensitive, models.ReviewFalsePositive)
	}
	if reviewer == "" {
		return fmt.Errorf("reviewer is required for a review decision")
	}

	query := `
		UPDATE column_findings
		SET review_state = ?, reviewer = ?, reviewed_at = NOW(), notes = ?
		WHERE server_name = ? AND instance_name = ? AND database_name = ?
		AND schema_name = ? AND table_name = ? AND column_name = ?
	`
	affected, err := fs.DB.ExecuteStatement(query,
		string(state), reviewer, notes,
		key.Server, key.Instance, key.Database, key.Schema, key.Table, key.Column,
	)
	if err != nil {
		fs.Logger.Errorf("Error applying review for %s.%s.%s: %v",
			key.Database, key.Table, key.Column, err)
		return err
	}
	if affected == 0 {
		return ErrFindingNotFound
	}

	fs.Logger.Infof("Review %s applied to %s.%s.%s by %s",
		state, key.Database, key.Table, key.Column, reviewer)
	return nil
}

// RecordConnectionSuccess resets the failure streak for an instance
func (fs *FindingStore) RecordConnectionSuccess(server, instance string) error {
	query := `
		INSERT INTO instance_health
			(server_name, instance_name, consecutive_failures, last_successful_check, last_failure_message)
		VALUES (?, ?, 0, NOW(), NULL)
		ON DUPLICATE KEY UPDATE
			consecutive_failures = 0,
			last_successful_check = NOW(),
			last_failure_message = NULL
	`
	_, err := fs.DB.ExecuteStatement(query, server, instance)
	if err != nil {
		fs.Logger.Errorf("Error recording connection success for %s/%s: %v", server, instance, err)
	}
	return err
}

// RecordConnectionFailure increments the failure streak for an instance
func (fs *FindingStore) RecordConnectionFailure(server, instance, message string) error {
	query := `
		INSERT INTO instance_health
			(server_name, instance_name, consecutive_failures, last_failure_message)
		VALUES (?, ?, 1, ?)
		ON DUPLICATE KEY UPDATE
			consecutive_failures = consecutive_failures + 1,
			last_failure_message = VALUES(last_failure_message)
	`
	_, err := fs.DB.ExecuteStatement(query, server, instance, message)
	if err != nil {
		fs.Logger.Errorf("Error recording connection failure for %s/%s: %v", server, instance, err)
	}
	return err
}

// ListInstanceHealth returns the health row for every monitored instance
func (fs *FindingStore) ListInstanceHealth() ([]models.InstanceHealth, error) {
	query := `
		SELECT server_name, instance_name, consecutive_failures, last_successful_check, last_failure_message
		FROM instance_health
		ORDER BY server_name, instance_name
	`
	result, err := fs.DB.ExecuteQuery(query)
	if err != nil {
		fs.Logger.Errorf("Error listing instance health: %v", err)
		return nil, err
	}

	var health []models.InstanceHealth
	for _, row := range result {
		entry := models.InstanceHealth{
			Server:   row["server_name"].(string),
			Instance: row["instance_name"].(string),
		}
		switch v := row["consecutive_failures"].(type) {
		case int64:
			entry.ConsecutiveFailures = int(v)
		case int:
			entry.ConsecutiveFailures = v
		}
		if ts, ok := row["last_successful_check"].(time.Time); ok {
			entry.LastSuccessfulCheck = &ts
		}
		if row["last_failure_message"] != nil {
			entry.LastFailureMessage, _ = row["last_failure_message"].(string)
		}
		health = append(health, entry)
	}

	return health, nil
}
