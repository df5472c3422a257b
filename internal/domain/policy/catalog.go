package policy

// Catalog is a fixed registry of compliance policies. It is built once and
// passed into the services that need it.
type Catalog struct {
	policies []*Policy
	byID     map[string]*Policy
}

// NewCatalog builds a catalog from the given policies, preserving order
func NewCatalog(policies []*Policy) *Catalog {
	c := &Catalog{
		policies: policies,
		byID:     make(map[string]*Policy, len(policies)),
	}
	for _, p := range policies {
		c.byID[p.ID] = p
	}
	return c
}

// Default returns the catalog of built-in policies
func Default() *Catalog {
	return NewCatalog(builtinPolicies())
}

// List returns all policies in catalog order
func (c *Catalog) List() []*Policy {
	return c.policies
}

// Get looks up a policy by ID
func (c *Catalog) Get(id string) (*Policy, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of policies in the catalog
func (c *Catalog) Len() int {
	return len(c.policies)
}

func builtinPolicies() []*Policy {
	return []*Policy{
		{
			ID:          "ENC-001",
			Name:        "Device Encryption Requirement",
			Type:        TypeEncryption,
			Description: "All company devices must have disk encryption enabled.",
			Requirements: map[string]Requirement{
				"windows": {EncryptionMethod: "BitLocker"},
				"macos":   {EncryptionMethod: "FileVault"},
				"ios":     {EncryptionMethod: "Data Protection"},
				"android": {EncryptionMethod: "FDE/FBE"},
			},
			Severity:  SeverityCritical,
			Platforms: []string{"windows", "macos", "ios", "android"},
			AppliesTo: []Scope{ScopeAllDevices},
			RemediationSteps: []string{
				"Enable BitLocker on Windows devices",
				"Enable FileVault on macOS devices",
				"Enable data protection on mobile devices",
			},
			References: []string{"NIST 800-53 SC-28", "HIPAA 164.312"},
		},
		{
			ID:          "PWD-001",
			Name:        "Password Complexity Requirement",
			Type:        TypePassword,
			Description: "Devices must have password complexity enabled.",
			Requirements: map[string]Requirement{
				"windows": {Settings: map[string]string{"minimum_length": "8", "maximum_age_days": "90"}},
				"macos":   {Settings: map[string]string{"minimum_length": "8", "maximum_age_days": "90"}},
				"ios":     {Settings: map[string]string{"minimum_length": "8"}},
				"android": {Settings: map[string]string{"minimum_length": "8"}},
			},
			Severity:  SeverityHigh,
			Platforms: []string{"windows", "macos", "ios", "android"},
			AppliesTo: []Scope{ScopeAllDevices},
			RemediationSteps: []string{
				"Configure password policy in device management",
				"Enforce password complexity requirements",
				"Set password expiration policy",
			},
			References: []string{"NIST 800-63B", "ISO 27001 A.9.4.3"},
		},
		{
			ID:          "FW-001",
			Name:        "Firewall Enabled",
			Type:        TypeFirewall,
			Description: "Device firewall must be enabled.",
			Requirements: map[string]Requirement{
				"windows": {Settings: map[string]string{"firewall_enabled": "true", "profile": "domain"}},
				"macos":   {Settings: map[string]string{"firewall_enabled": "true", "stealth_mode": "true"}},
			},
			Severity:  SeverityHigh,
			Platforms: []string{"windows", "macos"},
			AppliesTo: []Scope{ScopeAllDevices},
			RemediationSteps: []string{
				"Enable Windows Defender Firewall",
				"Configure firewall rules appropriately",
				"Enable stealth mode on macOS",
			},
			References: []string{"CIS Benchmarks", "NIST 800-53 SC-7"},
		},
		{
			ID:          "AV-001",
			Name:        "Antivirus Protection",
			Type:        TypeAntivirus,
			Description: "Antivirus software must be installed, enabled, and up-to-date.",
			Requirements: map[string]Requirement{
				"windows": {Settings: map[string]string{"real_time_protection": "true", "last_scan_days": "7"}},
				"macos":   {Settings: map[string]string{"real_time_protection": "true"}},
			},
			Severity:  SeverityHigh,
			Platforms: []string{"windows", "macos"},
			AppliesTo: []Scope{ScopeAllDevices},
			RemediationSteps: []string{
				"Install approved antivirus software",
				"Enable real-time protection",
				"Update virus definitions regularly",
				"Schedule regular scans",
			},
			References: []string{"CIS Benchmarks", "PCI DSS Requirement 5"},
		},
		{
			ID:          "SL-001",
			Name:        "Screen Lock Timeout",
			Type:        TypeScreenLock,
			Description: "Devices must automatically lock after inactivity.",
			Requirements: map[string]Requirement{
				"windows": {Settings: map[string]string{"timeout_minutes": "5", "require_password": "true"}},
				"macos":   {Settings: map[string]string{"timeout_minutes": "5", "require_password": "true"}},
				"ios":     {Settings: map[string]string{"timeout_minutes": "5"}},
				"android": {Settings: map[string]string{"timeout_minutes": "5"}},
			},
			Severity:  SeverityMedium,
			Platforms: []string{"windows", "macos", "ios", "android"},
			AppliesTo: []Scope{ScopeMobileDevices, ScopeLaptops},
			RemediationSteps: []string{
				"Configure screen lock timeout",
				"Require password on wake",
				"Disable automatic login",
			},
			References: []string{"HIPAA 164.312", "NIST 800-53 AC-11"},
		},
		{
			ID:          "OS-001",
			Name:        "Minimum OS Version",
			Type:        TypeMinimumOS,
			Description: "Devices must run minimum supported OS version.",
			Requirements: map[string]Requirement{
				"windows": {MinVersion: "10.0.19044"}, // Windows 10 21H2
				"macos":   {MinVersion: "12.0.0"},     // Monterey
				"ios":     {MinVersion: "15.0.0"},
				"android": {MinVersion: "10.0.0"},
			},
			Severity:  SeverityHigh,
			Platforms: []string{"windows", "macos", "ios", "android"},
			AppliesTo: []Scope{ScopeAllDevices},
			RemediationSteps: []string{
				"Update operating system to latest version",
				"Install security patches",
				"Replace unsupported devices",
			},
			References: []string{"Microsoft Security Baseline", "Apple Security Updates"},
		},
		{
			ID:          "JB-001",
			Name:        "Jailbreak/Root Detection",
			Type:        TypeJailbreak,
			Description: "Mobile devices must not be jailbroken or rooted.",
			Requirements: map[string]Requirement{
				"ios":     {Settings: map[string]string{"jailbreak_detected": "false"}},
				"android": {Settings: map[string]string{"root_detected": "false"}},
			},
			Severity:  SeverityCritical,
			Platforms: []string{"ios", "android"},
			AppliesTo: []Scope{ScopeMobileDevices},
			RemediationSteps: []string{
				"Remove jailbreak/root from device",
				"Factory reset if necessary",
				"Replace device if compromised",
			},
			References: []string{"NIST 800-53 CM-7", "CIS Mobile Benchmarks"},
		},
	}
}
