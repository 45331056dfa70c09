package models

import "time"

// RiskLevel represents the ordinal severity assigned to a sensitive-data pattern
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
)

// SeverityRank returns the ordering rank of a risk level (Critical=1 ... Low=4).
// Unknown levels rank below Low so a malformed rule never wins a tie-break.
func (r RiskLevel) SeverityRank() int {
	switch r {
	case RiskCritical:
		return 1
	case RiskHigh:
		return 2
	case RiskMedium:
		return 3
	case RiskLow:
		return 4
	default:
		return 5
	}
}

// IsValid reports whether the risk level is one of the four known values
func (r RiskLevel) IsValid() bool {
	return r.SeverityRank() < 5
}

// ReviewState represents the human-review status of a finding
type ReviewState string

const (
	ReviewUnreviewed         ReviewState = "Unreviewed"
	ReviewConfirmedSensitive ReviewState = "ConfirmedSensitive"
	ReviewFalsePositive      ReviewState = "FalsePositive"
)

// SensitivePattern is one configured detector for a category of sensitive data
type SensitivePattern struct {
	ID             int64
	Category       string
	PatternName    string
	NameTokens     []string
	TypeTokens     []string
	RiskLevel      RiskLevel
	ComplianceTags []string
	Active         bool
}

// Classification is the decision produced when a column matches a pattern
type Classification struct {
	Category       string
	PatternName    string
	RiskLevel      RiskLevel
	ComplianceTags []string
}

// ColumnKey uniquely identifies a physical column across the monitored fleet
type ColumnKey struct {
	Server   string
	Instance string
	Database string
	Schema   string
	Table    string
	Column   string
}

// ColumnObservation is one column as enumerated from the catalog
type ColumnObservation struct {
	Schema       string
	Table        string
	Column       string
	DeclaredType string
}

// ColumnFinding is a persisted detection for a single column
type ColumnFinding struct {
	Key               ColumnKey
	DeclaredType      string
	MatchedCategory   string
	MatchedPattern    string
	MatchedRisk       RiskLevel
	MatchedCompliance []string
	DetectedAt        time.Time
	ReviewState       ReviewState
	Reviewer          string
	ReviewedAt        *time.Time
	Notes             string
}

// InstanceHealth tracks connection outcomes for one monitored server+instance
type InstanceHealth struct {
	Server              string
	Instance            string
	ConsecutiveFailures int
	LastSuccessfulCheck *time.Time
	LastFailureMessage  string
}

// HealthTag derives the health classification from the failure streak
func (h InstanceHealth) HealthTag() string {
	switch {
	case h.ConsecutiveFailures == 0:
		return "Healthy"
	case h.ConsecutiveFailures <= 2:
		return "Warning"
	default:
		return "Critical"
	}
}

// ScanSummary aggregates the outcome of one scan pass over a database
type ScanSummary struct {
	RunID            string
	Server           string
	Instance         string
	Database         string
	ColumnsExamined  int
	FindingsRecorded int
	ByRisk           map[RiskLevel]int
	ErroredColumns   int
	StartedAt        time.Time
	FinishedAt       time.Time
}

// RiskSummaryRow is one row of the risk-level report
type RiskSummaryRow struct {
	RiskLevel      RiskLevel
	Total          int
	Confirmed      int
	FalsePositives int
}

// ComplianceRow is one row of the compliance-framework report
type ComplianceRow struct {
	Framework string
	Findings  int
	Databases int
}

// PatternAccuracyRow is one row of the per-pattern false-positive report
type PatternAccuracyRow struct {
	Category          string
	PatternName       string
	Total             int
	FalsePositives    int
	FalsePositiveRate float64
}
