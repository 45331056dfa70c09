package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

// ruleFile is the YAML document carrying an administrator-edited rule set
type ruleFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

// ruleEntry is one rule in a YAML rule file
type ruleEntry struct {
	Category    string   `yaml:"category"`
	PatternName string   `yaml:"pattern"`
	NameTokens  []string `yaml:"name_tokens"`
	TypeTokens  []string `yaml:"type_tokens,omitempty"`
	RiskLevel   string   `yaml:"risk"`
	Compliance  []string `yaml:"compliance,omitempty"`
	Active      *bool    `yaml:"active,omitempty"`
}

// LoadRuleFile reads a YAML rule file into a rule set. Rules default to
// active unless the file says otherwise.
func LoadRuleFile(path string) ([]models.SensitivePattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rule file %s: %w", path, err)
	}

	var ruleSet []models.SensitivePattern
	for _, entry := range file.Rules {
		active := true
		if entry.Active != nil {
			active = *entry.Active
		}
		ruleSet = append(ruleSet, models.SensitivePattern{
			Category:       entry.Category,
			PatternName:    entry.PatternName,
			NameTokens:     entry.NameTokens,
			TypeTokens:     entry.TypeTokens,
			RiskLevel:      models.RiskLevel(entry.RiskLevel),
			ComplianceTags: entry.Compliance,
			Active:         active,
		})
	}

	if err := validateRuleSet(ruleSet); err != nil {
		return nil, fmt.Errorf("invalid rule file %s: %w", path, err)
	}

	return ruleSet, nil
}

// SaveRuleFile writes a rule set to a YAML rule file
func SaveRuleFile(path string, ruleSet []models.SensitivePattern) error {
	var file ruleFile
	for _, rule := range ruleSet {
		active := rule.Active
		file.Rules = append(file.Rules, ruleEntry{
			Category:    rule.Category,
			PatternName: rule.PatternName,
			NameTokens:  rule.NameTokens,
			TypeTokens:  rule.TypeTokens,
			RiskLevel:   string(rule.RiskLevel),
			Compliance:  rule.ComplianceTags,
			Active:      &active,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
