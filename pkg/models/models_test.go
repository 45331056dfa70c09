package models

import "testing"

func TestSeverityRankOrdering(t *testing.T) {
	ordered := []RiskLevel{RiskCritical, RiskHigh, RiskMedium, RiskLow}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].SeverityRank() >= ordered[i].SeverityRank() {
			t.Errorf("Expected %s to rank before %s", ordered[i-1], ordered[i])
		}
	}

	if RiskLevel("Severe").SeverityRank() <= RiskLow.SeverityRank() {
		t.Error("Expected unknown risk levels to rank below Low")
	}
}

func TestRiskLevelIsValid(t *testing.T) {
	for _, r := range []RiskLevel{RiskCritical, RiskHigh, RiskMedium, RiskLow} {
		if !r.IsValid() {
			t.Errorf("Expected %s to be valid", r)
		}
	}
	if RiskLevel("Severe").IsValid() {
		t.Error("Expected 'Severe' to be invalid")
	}
	if RiskLevel("").IsValid() {
		t.Error("Expected empty risk level to be invalid")
	}
}

func TestHealthTagThresholds(t *testing.T) {
	cases := []struct {
		failures int
		expected string
	}{
		{0, "Healthy"},
		{1, "Warning"},
		{2, "Warning"},
		{3, "Critical"},
		{10, "Critical"},
	}

	for _, c := range cases {
		h := InstanceHealth{Server: "SRV1", Instance: "DEFAULT", ConsecutiveFailures: c.failures}
		if tag := h.HealthTag(); tag != c.expected {
			t.Errorf("Expected %s for %d failures, got %s", c.expected, c.failures, tag)
		}
	}
}
