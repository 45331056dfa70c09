package classifier

import (
	"errors"
	"strings"

	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// Validation errors returned by Classify. No error is returned when no rule
// matches; that outcome is a nil Classification.
var (
	ErrEmptyColumnName = errors.New("column name must not be empty")
	ErrEmptyDataType   = errors.New("declared data type must not be empty")
)

// Classify decides whether a single column observation is sensitive and, if so,
// which single best-matching rule applies. The rule slice is treated as an
// immutable snapshot and is never modified.
//
// A rule is a candidate when the lowercased column name contains at least one
// of the rule's name tokens as a substring. Among candidates, a rule qualifies
// when it declares no type tokens, or when the lowercased declared type
// contains one of them. The winner is selected by risk severity (Critical
// first), then by longer combined name-token text (the more specific rule),
// then by position in the rule slice.
func Classify(columnName, declaredType string, rules []models.SensitivePattern) (*models.Classification, error) {
	if strings.TrimSpace(columnName) == "" {
		return nil, ErrEmptyColumnName
	}
	if strings.TrimSpace(declaredType) == "" {
		return nil, ErrEmptyDataType
	}

	name := strings.ToLower(columnName)
	dataType := strings.ToLower(declaredType)

	var best *models.SensitivePattern
	bestSpecificity := 0

	for i := range rules {
		rule := &rules[i]
		if !rule.Active {
			continue
		}
		if !matchesName(name, rule.NameTokens) {
			continue
		}
		if !matchesType(dataType, rule.TypeTokens) {
			continue
		}

		specificity := tokenTextLength(rule.NameTokens)
		if best == nil {
			best = rule
			bestSpecificity = specificity
			continue
		}

		// Strict improvement only: equal rank and equal specificity keeps
		// the earlier rule, so input order is the final tie-break.
		if rule.RiskLevel.SeverityRank() < best.RiskLevel.SeverityRank() ||
			(rule.RiskLevel.SeverityRank() == best.RiskLevel.SeverityRank() && specificity > bestSpecificity) {
			best = rule
			bestSpecificity = specificity
		}
	}

	if best == nil {
		return nil, nil
	}

	return &models.Classification{
		Category:       best.Category,
		PatternName:    best.PatternName,
		RiskLevel:      best.RiskLevel,
		ComplianceTags: append([]string(nil), best.ComplianceTags...),
	}, nil
}

// matchesName reports whether the lowercased column name contains any of the
// rule's name tokens
func matchesName(loweredName string, tokens []string) bool {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(loweredName, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// matchesType reports whether the declared type passes the rule's type gate.
// A rule with no type tokens matches any declared type.
func matchesType(loweredType string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(loweredType, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// tokenTextLength measures rule specificity as the total character count of
// its name tokens
func tokenTextLength(tokens []string) int {
	total := 0
	for _, token := range tokens {
		total += len(token)
	}
	return total
}
