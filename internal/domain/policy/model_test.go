package policy

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"critical", SeverityCritical},
		{"high", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{"informational", SeverityInformational},
		{"bogus", SeverityInformational},
		{"", SeverityInformational},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSeverity(tt.input); got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityMeets(t *testing.T) {
	tests := []struct {
		name      string
		severity  Severity
		threshold Severity
		want      bool
	}{
		{"critical meets medium", SeverityCritical, SeverityMedium, true},
		{"medium meets medium", SeverityMedium, SeverityMedium, true},
		{"low below medium", SeverityLow, SeverityMedium, false},
		{"informational below low", SeverityInformational, SeverityLow, false},
		{"high meets informational", SeverityHigh, SeverityInformational, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.severity.Meets(tt.threshold); got != tt.want {
				t.Errorf("%v.Meets(%v) = %v, want %v", tt.severity, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestSupportsPlatform(t *testing.T) {
	p := &Policy{Platforms: []string{"windows", "macos"}}

	tests := []struct {
		platform string
		want     bool
	}{
		{"windows", true},
		{"windows 11 enterprise", true},
		{"macos", true},
		{"ios", false},
		{"android", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			if got := p.SupportsPlatform(tt.platform); got != tt.want {
				t.Errorf("SupportsPlatform(%q) = %v, want %v", tt.platform, got, tt.want)
			}
		})
	}
}

func TestRequirementFor(t *testing.T) {
	p := &Policy{
		Requirements: map[string]Requirement{
			"windows": {MinVersion: "10.0.19044"},
			"macos":   {MinVersion: "12.0.0"},
		},
	}

	req, ok := p.RequirementFor("windows 10 pro")
	if !ok {
		t.Fatal("expected requirement for windows platform")
	}
	if req.MinVersion != "10.0.19044" {
		t.Errorf("MinVersion = %q, want %q", req.MinVersion, "10.0.19044")
	}

	if _, ok := p.RequirementFor("android"); ok {
		t.Error("expected no requirement for android")
	}
}

func TestDefaultCatalog(t *testing.T) {
	catalog := Default()

	if catalog.Len() != 7 {
		t.Fatalf("catalog has %d policies, want 7", catalog.Len())
	}

	for _, id := range []string{"ENC-001", "PWD-001", "FW-001", "AV-001", "SL-001", "OS-001", "JB-001"} {
		p, ok := catalog.Get(id)
		if !ok {
			t.Errorf("policy %s missing from catalog", id)
			continue
		}
		if p.Type == TypeUnknown {
			t.Errorf("policy %s has unknown type", id)
		}
		if len(p.Platforms) == 0 {
			t.Errorf("policy %s has no platforms", id)
		}
	}

	enc, _ := catalog.Get("ENC-001")
	if enc.Severity != SeverityCritical {
		t.Errorf("ENC-001 severity = %v, want critical", enc.Severity)
	}
}
