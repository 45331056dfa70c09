package rules

import "github.com/dbaops/mysql-sensitive-scanner/pkg/models"

// StarterRules returns the built-in rule set used to seed an empty pattern
// table. Administrators are expected to extend or replace these via the rule
// table or a YAML rule file; the scanner itself never consults this list
// directly.
func StarterRules() []models.SensitivePattern {
	return []models.SensitivePattern{
		{
			Category:       "PII",
			PatternName:    "Social Security Number",
			NameTokens:     []string{"ssn", "social_security", "socialsecurity", "social security"},
			TypeTokens:     []string{"char", "varchar"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR", "CCPA"},
			Active:         true,
		},
		{
			Category:       "PII",
			PatternName:    "Passport Number",
			NameTokens:     []string{"passport"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "PII",
			PatternName:    "Driver License",
			NameTokens:     []string{"driver_license", "drivers_license", "driver"},
			RiskLevel:      models.RiskHigh,
			ComplianceTags: []string{"GDPR", "CCPA"},
			Active:         true,
		},
		{
			Category:       "PII",
			PatternName:    "National ID",
			NameTokens:     []string{"national_id", "nationalid", "tax_id", "taxid"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Financial",
			PatternName:    "Credit Card",
			NameTokens:     []string{"credit", "card_number", "cardnumber", "ccnum", "pan"},
			TypeTokens:     []string{"char", "varchar"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"PCI-DSS"},
			Active:         true,
		},
		{
			Category:       "Financial",
			PatternName:    "Bank Account",
			NameTokens:     []string{"account_number", "accountnumber", "iban", "routing"},
			RiskLevel:      models.RiskHigh,
			ComplianceTags: []string{"PCI-DSS", "SOX"},
			Active:         true,
		},
		{
			Category:       "Financial",
			PatternName:    "Salary",
			NameTokens:     []string{"salary", "compensation", "wage"},
			TypeTokens:     []string{"money", "decimal", "numeric"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"SOX"},
			Active:         true,
		},
		{
			Category:       "Auth",
			PatternName:    "Password",
			NameTokens:     []string{"password", "passwd", "pwd"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Auth",
			PatternName:    "Hash/Salt",
			NameTokens:     []string{"hash", "salt"},
			RiskLevel:      models.RiskHigh,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Auth",
			PatternName:    "API Key/Token",
			NameTokens:     []string{"api_key", "apikey", "token", "secret"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR", "SOX"},
			Active:         true,
		},
		{
			Category:       "Contact",
			PatternName:    "Email Address",
			NameTokens:     []string{"email", "e_mail"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"GDPR", "CCPA"},
			Active:         true,
		},
		{
			Category:       "Contact",
			PatternName:    "Phone Number",
			NameTokens:     []string{"phone", "mobile", "fax"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"GDPR", "CCPA"},
			Active:         true,
		},
		{
			Category:       "Contact",
			PatternName:    "Postal Address",
			NameTokens:     []string{"address", "street", "postal_code", "zipcode"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Health",
			PatternName:    "Medical Record",
			NameTokens:     []string{"medical", "patient", "diagnosis", "prescription"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"HIPAA", "GDPR"},
			Active:         true,
		},
		{
			Category:       "Health",
			PatternName:    "Health Insurance",
			NameTokens:     []string{"insurance", "beneficiary"},
			RiskLevel:      models.RiskHigh,
			ComplianceTags: []string{"HIPAA"},
			Active:         true,
		},
		{
			Category:       "Biometric",
			PatternName:    "Biometric Data",
			NameTokens:     []string{"fingerprint", "biometric", "retina", "face_id"},
			RiskLevel:      models.RiskCritical,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Demographic",
			PatternName:    "Demographics",
			NameTokens:     []string{"gender", "ethnicity", "race", "religion"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"GDPR"},
			Active:         true,
		},
		{
			Category:       "Demographic",
			PatternName:    "Date of Birth",
			NameTokens:     []string{"birth", "dob"},
			TypeTokens:     []string{"date", "char", "varchar"},
			RiskLevel:      models.RiskHigh,
			ComplianceTags: []string{"GDPR", "HIPAA"},
			Active:         true,
		},
		{
			Category:       "Location",
			PatternName:    "Geolocation",
			NameTokens:     []string{"latitude", "longitude", "geolocation", "gps"},
			RiskLevel:      models.RiskMedium,
			ComplianceTags: []string{"GDPR", "CCPA"},
			Active:         true,
		},
		{
			Category:       "Employment",
			PatternName:    "Employment Record",
			NameTokens:     []string{"employee_id", "employeeid", "hire_date", "termination"},
			RiskLevel:      models.RiskLow,
			ComplianceTags: []string{"SOX"},
			Active:         true,
		},
	}
}
