package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dbaops/mysql-sensitive-scanner/internal/connector"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// RuleStore reads and writes sensitive-data patterns in the rule table
type RuleStore struct {
	DB     *connector.DatabaseConnector
	Logger *logrus.Logger
}

// NewRuleStore creates a new rule store
func NewRuleStore(db *connector.DatabaseConnector, logger *logrus.Logger) *RuleStore {
	return &RuleStore{
		DB:     db,
		Logger: logger,
	}
}

// LoadActive loads all active rules as an immutable snapshot for one scan
// batch. Rules come back ordered by severity rank then id, so the slice order
// is a stable final tie-break for the classifier.
func (rs *RuleStore) LoadActive() ([]models.SensitivePattern, error) {
	query := `
		SELECT
			id,
			category,
			pattern_name,
			name_tokens,
			type_tokens,
			risk_level,
			compliance_tags
		FROM sensitive_patterns
		WHERE active = 1
		ORDER BY id
	`
	result, err := rs.DB.ExecuteQuery(query)
	if err != nil {
		rs.Logger.Errorf("Error loading active rules: %v", err)
		return nil, err
	}

	var loaded []models.SensitivePattern
	for _, row := range result {
		rule := models.SensitivePattern{
			Category:       row["category"].(string),
			PatternName:    row["pattern_name"].(string),
			NameTokens:     SplitTokens(asString(row["name_tokens"])),
			TypeTokens:     SplitTokens(asString(row["type_tokens"])),
			RiskLevel:      models.RiskLevel(row["risk_level"].(string)),
			ComplianceTags: SplitTokens(asString(row["compliance_tags"])),
			Active:         true,
		}
		if id, ok := row["id"].(int64); ok {
			rule.ID = id
		}
		if !rule.RiskLevel.IsValid() {
			rs.Logger.Warningf("Skipping rule %s/%s with unknown risk level %q",
				rule.Category, rule.PatternName, rule.RiskLevel)
			continue
		}
		if len(rule.NameTokens) == 0 {
			rs.Logger.Warningf("Skipping rule %s/%s with no name tokens", rule.Category, rule.PatternName)
			continue
		}
		loaded = append(loaded, rule)
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].RiskLevel.SeverityRank() < loaded[j].RiskLevel.SeverityRank()
	})

	rs.Logger.Infof("Loaded %d active sensitive-data rules", len(loaded))
	return loaded, nil
}

// Seed writes a rule set to the rule table. Existing rows with the same
// category and pattern name are updated in place, so re-seeding is safe.
func (rs *RuleStore) Seed(ruleSet []models.SensitivePattern) (int64, error) {
	if err := validateRuleSet(ruleSet); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO sensitive_patterns
			(category, pattern_name, name_tokens, type_tokens, risk_level, compliance_tags, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name_tokens = VALUES(name_tokens),
			type_tokens = VALUES(type_tokens),
			risk_level = VALUES(risk_level),
			compliance_tags = VALUES(compliance_tags),
			active = VALUES(active)
	`

	var paramsList [][]interface{}
	for _, rule := range ruleSet {
		paramsList = append(paramsList, []interface{}{
			rule.Category,
			rule.PatternName,
			JoinTokens(rule.NameTokens),
			JoinTokens(rule.TypeTokens),
			string(rule.RiskLevel),
			JoinTokens(rule.ComplianceTags),
			rule.Active,
		})
	}

	affected, err := rs.DB.ExecuteMany(query, paramsList)
	if err != nil {
		rs.Logger.Errorf("Error seeding rules: %v", err)
		return 0, err
	}

	rs.Logger.Infof("Seeded %d rules (%d rows affected)", len(ruleSet), affected)
	return affected, nil
}

// Deactivate marks one rule inactive without deleting its history
func (rs *RuleStore) Deactivate(category, patternName string) error {
	affected, err := rs.DB.ExecuteStatement(
		"UPDATE sensitive_patterns SET active = 0 WHERE category = ? AND pattern_name = ?",
		category, patternName,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no rule found for %s/%s", category, patternName)
	}
	rs.Logger.Infof("Deactivated rule %s/%s", category, patternName)
	return nil
}

// validateRuleSet rejects rule sets that would violate the rule-table
// invariants before any row is written
func validateRuleSet(ruleSet []models.SensitivePattern) error {
	if len(ruleSet) == 0 {
		return fmt.Errorf("rule set is empty")
	}

	seen := make(map[string]bool)
	for _, rule := range ruleSet {
		if rule.Category == "" || rule.PatternName == "" {
			return fmt.Errorf("rule with empty category or pattern name")
		}
		if !rule.RiskLevel.IsValid() {
			return fmt.Errorf("rule %s/%s has invalid risk level %q", rule.Category, rule.PatternName, rule.RiskLevel)
		}
		if len(rule.NameTokens) == 0 {
			return fmt.Errorf("rule %s/%s has no name tokens", rule.Category, rule.PatternName)
		}
		// The rule table is keyed on category+pattern_name, so two rules
		// with the same key would collapse into one row on upsert no matter
		// their active flags
		key := strings.ToLower(rule.Category) + "/" + strings.ToLower(rule.PatternName)
		if seen[key] {
			return fmt.Errorf("duplicate rule %s/%s", rule.Category, rule.PatternName)
		}
		seen[key] = true
	}
	return nil
}

// SplitTokens splits a comma-delimited token column into a clean slice
func SplitTokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// JoinTokens renders a token slice back into its comma-delimited column form
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, ",")
}

// asString converts a nullable column value to a string
func asString(val interface{}) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}
