package report

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
	"github.com/dbaops/mysql-sensitive-scanner/internal/rules"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// Reporter runs read-side queries over the finding store for the reporting
// commands. It never writes.
type Reporter struct {
	DB     *connector.DatabaseConnector
	Logger *logrus.Logger
}

// NewReporter creates a new reporter
func NewReporter(db *connector.DatabaseConnector, logger *logrus.Logger) *Reporter {
	return &Reporter{
		DB:     db,
		Logger: logger,
	}
}

// SummaryByRisk returns finding counts per risk level, ordered Critical first
func (r *Reporter) SummaryByRisk() ([]models.RiskSummaryRow, error) {
	query := `
		SELECT
			matched_risk,
			COUNT(*) AS total,
			SUM(CASE WHEN review_state = 'ConfirmedSensitive' THEN 1 ELSE 0 END) AS confirmed,
			SUM(CASE WHEN review_state = 'FalsePositive' THEN 1 ELSE 0 END) AS false_positives
		FROM column_findings
		GROUP BY matched_risk
	`
	result, err := r.DB.ExecuteQuery(query)
	if err != nil {
		r.Logger.Errorf("Error building risk summary: %v", err)
		return nil, err
	}

	var summary []models.RiskSummaryRow
	for _, row := range result {
		summary = append(summary, models.RiskSummaryRow{
			RiskLevel:      models.RiskLevel(asString(row["matched_risk"])),
			Total:          asInt(row["total"]),
			Confirmed:      asInt(row["confirmed"]),
			FalsePositives: asInt(row["false_positives"]),
		})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].RiskLevel.SeverityRank() < summary[j].RiskLevel.SeverityRank()
	})

	return summary, nil
}

// CriticalFindings returns the critical-risk findings that have not been
// dismissed as false positives
func (r *Reporter) CriticalFindings() ([]models.ColumnFinding, error) {
	query := `
		SELECT
			server_name, instance_name, database_name, schema_name, table_name, column_name,
			declared_type, matched_category, matched_pattern, matched_compliance, review_state
		FROM column_findings
		WHERE matched_risk = 'Critical'
		AND review_state <> 'FalsePositive'
		ORDER BY server_name, database_name, table_name, column_name
	`
	result, err := r.DB.ExecuteQuery(query)
	if err != nil {
		r.Logger.Errorf("Error listing critical findings: %v", err)
		return nil, err
	}

	var findings []models.ColumnFinding
	for _, row := range result {
		findings = append(findings, models.ColumnFinding{
			Key: models.ColumnKey{
				Server:   asString(row["server_name"]),
				Instance: asString(row["instance_name"]),
				Database: asString(row["database_name"]),
				Schema:   asString(row["schema_name"]),
				Table:    asString(row["table_name"]),
				Column:   asString(row["column_name"]),
			},
			DeclaredType:      asString(row["declared_type"]),
			MatchedCategory:   asString(row["matched_category"]),
			MatchedPattern:    asString(row["matched_pattern"]),
			MatchedRisk:       models.RiskCritical,
			MatchedCompliance: rules.SplitTokens(asString(row["matched_compliance"])),
			ReviewState:       models.ReviewState(asString(row["review_state"])),
		})
	}

	return findings, nil
}

// ComplianceBreakdown aggregates findings per compliance framework. Tags are
// stored comma-delimited per finding, so the fan-out happens here rather than
// in SQL.
func (r *Reporter) ComplianceBreakdown() ([]models.ComplianceRow, error) {
	query := `
		SELECT matched_compliance, database_name
		FROM column_findings
		WHERE review_state <> 'FalsePositive'
	`
	result, err := r.DB.ExecuteQuery(query)
	if err != nil {
		r.Logger.Errorf("Error building compliance breakdown: %v", err)
		return nil, err
	}

	findingCounts := make(map[string]int)
	databases := make(map[string]map[string]bool)

	for _, row := range result {
		database := asString(row["database_name"])
		for _, framework := range rules.SplitTokens(asString(row["matched_compliance"])) {
			findingCounts[framework]++
			if databases[framework] == nil {
				databases[framework] = make(map[string]bool)
			}
			databases[framework][database] = true
		}
	}

	var breakdown []models.ComplianceRow
	for framework, count := range findingCounts {
		breakdown = append(breakdown, models.ComplianceRow{
			Framework: framework,
			Findings:  count,
			Databases: len(databases[framework]),
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Findings != breakdown[j].Findings {
			return breakdown[i].Findings > breakdown[j].Findings
		}
		return breakdown[i].Framework < breakdown[j].Framework
	})

	return breakdown, nil
}

// PatternAccuracy returns the reviewed false-positive rate per pattern,
// worst offenders first
func (r *Reporter) PatternAccuracy() ([]models.PatternAccuracyRow, error) {
	query := `
		SELECT
			matched_category,
			matched_pattern,
			COUNT(*) AS total,
			SUM(CASE WHEN review_state = 'FalsePositive' THEN 1 ELSE 0 END) AS false_positives
		FROM column_findings
		GROUP BY matched_category, matched_pattern
	`
	result, err := r.DB.ExecuteQuery(query)
	if err != nil {
		r.Logger.Errorf("Error building pattern accuracy report: %v", err)
		return nil, err
	}

	var accuracy []models.PatternAccuracyRow
	for _, row := range result {
		entry := models.PatternAccuracyRow{
			Category:       asString(row["matched_category"]),
			PatternName:    asString(row["matched_pattern"]),
			Total:          asInt(row["total"]),
			FalsePositives: asInt(row["false_positives"]),
		}
		if entry.Total > 0 {
			entry.FalsePositiveRate = float64(entry.FalsePositives) / float64(entry.Total)
		}
		accuracy = append(accuracy, entry)
	}

	sort.Slice(accuracy, func(i, j int) bool {
		if accuracy[i].FalsePositiveRate != accuracy[j].FalsePositiveRate {
			return accuracy[i].FalsePositiveRate > accuracy[j].FalsePositiveRate
		}
		return accuracy[i].PatternName < accuracy[j].PatternName
	})

	return accuracy, nil
}

// asString converts a nullable column value to a string
func asString(val interface{}) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// asInt converts a count column to an int. MySQL returns SUM() results as
// decimal strings through the generic row scan.
func asInt(val interface{}) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case nil:
		return 0
	default:
		n, err := strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64)
		if err != nil {
			return 0
		}
		return int(n)
	}
}
