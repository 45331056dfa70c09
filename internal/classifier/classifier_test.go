package classifier

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dbaops/mysql-sensitive-scanner/internal/rules"
	"github.com/dbaops/mysql-sensitive-scanner/pkg/models"
)

func TestClassifyRejectsEmptyInputs(t *testing.T) {
	ruleSet := rules.StarterRules()

	_, err := Classify("", "varchar", ruleSet)
	if !errors.Is(err, ErrEmptyColumnName) {
		t.Errorf("Expected ErrEmptyColumnName for empty column name, got %v", err)
	}

	_, err = Classify("   ", "varchar", ruleSet)
	if !errors.Is(err, ErrEmptyColumnName) {
		t.Errorf("Expected ErrEmptyColumnName for blank column name, got %v", err)
	}

	_, err = Classify("email", "", ruleSet)
	if !errors.Is(err, ErrEmptyDataType) {
		t.Errorf("Expected ErrEmptyDataType for empty data type, got %v", err)
	}
}

func TestClassifyNoMatchIsNotAnError(t *testing.T) {
	classification, err := Classify("widget_color", "varchar", rules.StarterRules())
	if err != nil {
		t.Errorf("Expected no error for unmatched column, got %v", err)
	}
	if classification != nil {
		t.Errorf("Expected no classification for widget_color, got %s/%s",
			classification.Category, classification.PatternName)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	ruleSet := rules.StarterRules()

	first, err := Classify("CustomerEmail", "varchar(128)", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first == nil {
		t.Fatal("Expected CustomerEmail to classify")
	}

	for i := 0; i < 20; i++ {
		again, err := Classify("CustomerEmail", "varchar(128)", ruleSet)
		if err != nil {
			t.Fatalf("Unexpected error on repeat call: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Classification changed between identical calls: %+v vs %+v", first, again)
		}
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	ruleSet := rules.StarterRules()

	upper, err := Classify("SSN", "varchar", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lower, err := Classify("ssn", "VARCHAR", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if upper == nil || lower == nil {
		t.Fatal("Expected both SSN spellings to classify")
	}
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("Expected identical classifications, got %+v and %+v", upper, lower)
	}
	if upper.PatternName != "Social Security Number" {
		t.Errorf("Expected Social Security Number, got %s", upper.PatternName)
	}
}

func TestClassifyPrefersCriticalOverHigh(t *testing.T) {
	// password_hash matches both the Critical Password rule and the High
	// Hash/Salt rule; severity must win.
	classification, err := Classify("password_hash", "varchar(64)", rules.StarterRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification == nil {
		t.Fatal("Expected password_hash to classify")
	}
	if classification.PatternName != "Password" {
		t.Errorf("Expected Password rule to win, got %s", classification.PatternName)
	}
	if classification.RiskLevel != models.RiskCritical {
		t.Errorf("Expected Critical risk, got %s", classification.RiskLevel)
	}
}

func TestClassifySpecificityBreaksEqualRiskTies(t *testing.T) {
	ruleSet := []models.SensitivePattern{
		{
			Category:    "Synthetic",
			PatternName: "Short",
			NameTokens:  []string{"acct"},
			RiskLevel:   models.RiskHigh,
			Active:      true,
		},
		{
			Category:    "Synthetic",
			PatternName: "Long",
			NameTokens:  []string{"acct", "acct_balance"},
			RiskLevel:   models.RiskHigh,
			Active:      true,
		},
	}

	classification, err := Classify("acct_balance", "decimal(10,2)", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification == nil {
		t.Fatal("Expected acct_balance to classify")
	}
	if classification.PatternName != "Long" {
		t.Errorf("Expected the more specific rule to win, got %s", classification.PatternName)
	}
}

func TestClassifyInputOrderBreaksRemainingTies(t *testing.T) {
	ruleSet := []models.SensitivePattern{
		{
			Category:    "Synthetic",
			PatternName: "First",
			NameTokens:  []string{"token"},
			RiskLevel:   models.RiskMedium,
			Active:      true,
		},
		{
			Category:    "Synthetic",
			PatternName: "Second",
			NameTokens:  []string{"nekot"},
			RiskLevel:   models.RiskMedium,
			Active:      true,
		},
	}

	classification, err := Classify("token_nekot", "varchar", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification == nil {
		t.Fatal("Expected column to classify")
	}
	if classification.PatternName != "First" {
		t.Errorf("Expected the earlier rule to win the tie, got %s", classification.PatternName)
	}
}

func TestClassifyTypeGate(t *testing.T) {
	ruleSet := rules.StarterRules()

	// The Salary rule only applies to money-like types
	classification, err := Classify("salary", "varchar(32)", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification != nil {
		t.Errorf("Expected no match for varchar salary, got %s", classification.PatternName)
	}

	classification, err = Classify("salary", "decimal(12,2)", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification == nil {
		t.Fatal("Expected decimal salary to classify")
	}
	if classification.PatternName != "Salary" {
		t.Errorf("Expected Salary rule, got %s", classification.PatternName)
	}
}

func TestClassifyEmailColumn(t *testing.T) {
	classification, err := Classify("Email", "nvarchar", rules.StarterRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification == nil {
		t.Fatal("Expected Email to classify")
	}
	if classification.Category != "Contact" {
		t.Errorf("Expected Contact category, got %s", classification.Category)
	}
	if classification.PatternName != "Email Address" {
		t.Errorf("Expected Email Address pattern, got %s", classification.PatternName)
	}
	if classification.RiskLevel != models.RiskMedium {
		t.Errorf("Expected Medium risk, got %s", classification.RiskLevel)
	}
}

func TestClassifySkipsInactiveRules(t *testing.T) {
	ruleSet := []models.SensitivePattern{
		{
			Category:    "Synthetic",
			PatternName: "Disabled",
			NameTokens:  []string{"email"},
			RiskLevel:   models.RiskCritical,
			Active:      false,
		},
	}

	classification, err := Classify("email", "varchar", ruleSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classification != nil {
		t.Errorf("Expected inactive rule to be ignored, got %s", classification.PatternName)
	}
}

func TestClassifyDoesNotMutateRules(t *testing.T) {
	ruleSet := rules.StarterRules()
	snapshot := make([]models.SensitivePattern, len(ruleSet))
	copy(snapshot, ruleSet)

	if _, err := Classify("patient_ssn_hash", "varchar", ruleSet); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(snapshot, ruleSet) {
		t.Error("Expected the rule snapshot to be unchanged after classification")
	}
}
