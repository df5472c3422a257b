package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

// Evaluator runs individual policy checks against device records. It is
// stateless; all inputs arrive as arguments and the clock is injected.
type Evaluator struct {
	clock Clock
}

// NewEvaluator creates an evaluator with the given clock
func NewEvaluator(clock Clock) *Evaluator {
	return &Evaluator{clock: clock}
}

// Evaluate runs one policy against one device and always returns a result.
// A panicking check is converted into an error result so a single bad record
// can never take down a fleet run.
func (e *Evaluator) Evaluate(p *policy.Policy, rec *device.Record) (result compliance.CheckResult) {
	result = compliance.CheckResult{
		CheckID:    fmt.Sprintf("%s-%s", p.ID, rec.DeviceID),
		PolicyID:   p.ID,
		PolicyName: p.Name,
		PolicyType: p.Type,
		DeviceID:   rec.DeviceID,
		DeviceName: rec.DisplayName(),
		Severity:   p.Severity,
		Timestamp:  e.clock.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			result.Status = compliance.StatusError
			result.ErrorMessage = fmt.Sprintf("check panicked: %v", r)
			result.Details = "Check failed to complete"
		}
	}()

	switch p.Type {
	case policy.TypeEncryption:
		e.checkEncryption(p, rec, &result)
	case policy.TypePassword, policy.TypeFirewall, policy.TypeScreenLock, policy.TypeJailbreak:
		e.checkComplianceState(p, rec, &result)
	case policy.TypeAntivirus:
		e.checkAntivirus(p, rec, &result)
	case policy.TypeMinimumOS:
		e.checkMinimumOS(p, rec, &result)
	default:
		result.Status = compliance.StatusNotApplicable
		result.Details = fmt.Sprintf("No check implemented for policy type %s", p.Type)
	}

	if result.Status == compliance.StatusNonCompliant {
		result.RemediationRequired = true
		result.RemediationSteps = p.RemediationSteps
	}

	return result
}

// checkEncryption validates disk encryption. The encrypted flag is tri-state:
// unknown produces an error result, not a guess.
func (e *Evaluator) checkEncryption(p *policy.Policy, rec *device.Record, result *compliance.CheckResult) {
	result.ExpectedValue = "encrypted"

	if rec.IsEncrypted == nil {
		result.Status = compliance.StatusError
		result.ErrorMessage = "encryption status not reported"
		result.Details = "Unable to determine encryption status"
		result.ActualValue = "unknown"
		return
	}

	if *rec.IsEncrypted {
		result.Status = compliance.StatusCompliant
		result.ActualValue = encryptionLabel(rec)
		result.Details = fmt.Sprintf("Device is encrypted with %s", result.ActualValue)
		return
	}

	result.Status = compliance.StatusNonCompliant
	result.ActualValue = "not encrypted"
	result.Details = "Device storage is not encrypted"
}

func encryptionLabel(rec *device.Record) string {
	if rec.EncryptionType != "" {
		return rec.EncryptionType
	}
	return "platform encryption"
}

// checkComplianceState validates policies that the management agent reports
// on directly. The reported state is compliant only when it contains
// "compliant" without a "non" qualifier; anything else, including a missing
// state, is non_compliant.
func (e *Evaluator) checkComplianceState(p *policy.Policy, rec *device.Record, result *compliance.CheckResult) {
	state := strings.ToLower(rec.ComplianceState)
	result.ExpectedValue = "compliant"
	result.ActualValue = state

	if strings.Contains(state, "compliant") && !strings.Contains(state, "non") {
		result.Status = compliance.StatusCompliant
		result.Details = fmt.Sprintf("Device reports %s state for %s", state, p.Type)
		return
	}

	if state == "" {
		result.Status = compliance.StatusNonCompliant
		result.ActualValue = "not reported"
		result.Details = fmt.Sprintf("Device did not report a compliance state for %s", p.Type)
		return
	}

	result.Status = compliance.StatusNonCompliant
	result.Details = fmt.Sprintf("Device reports %s state for %s", state, p.Type)
}

// checkAntivirus validates endpoint protection. Only desktop platforms carry
// a managed antivirus requirement; macOS ships XProtect so it always passes.
func (e *Evaluator) checkAntivirus(p *policy.Policy, rec *device.Record, result *compliance.CheckResult) {
	platform := rec.Platform()
	result.ExpectedValue = "antivirus active"

	switch {
	case strings.Contains(platform, "windows"):
		e.checkComplianceState(p, rec, result)
	case strings.Contains(platform, "mac"):
		result.Status = compliance.StatusCompliant
		result.ActualValue = "XProtect"
		result.Details = "macOS includes built-in XProtect antivirus"
	default:
		result.Status = compliance.StatusNotApplicable
		result.ActualValue = platform
		result.Details = fmt.Sprintf("Antivirus check not applicable to %s", platform)
	}
}

// checkMinimumOS validates the OS version against the per-platform minimum
func (e *Evaluator) checkMinimumOS(p *policy.Policy, rec *device.Record, result *compliance.CheckResult) {
	platform := rec.Platform()

	req, ok := p.RequirementFor(platform)
	if !ok || req.MinVersion == "" {
		result.Status = compliance.StatusNotApplicable
		result.Details = fmt.Sprintf("No minimum OS version defined for %s", platform)
		return
	}

	result.ExpectedValue = ">= " + req.MinVersion
	result.ActualValue = rec.OSVersion

	if rec.OSVersion == "" {
		result.Status = compliance.StatusError
		result.ErrorMessage = "OS version not reported"
		result.Details = "Unable to determine OS version"
		result.ActualValue = "unknown"
		return
	}

	cmp, err := compareVersions(rec.OSVersion, req.MinVersion)
	if err != nil {
		result.Status = compliance.StatusError
		result.ErrorMessage = err.Error()
		result.Details = fmt.Sprintf("Unable to parse OS version %q", rec.OSVersion)
		return
	}

	if cmp >= 0 {
		result.Status = compliance.StatusCompliant
		result.Details = fmt.Sprintf("OS version %s meets minimum %s", rec.OSVersion, req.MinVersion)
		return
	}

	result.Status = compliance.StatusNonCompliant
	result.Details = fmt.Sprintf("OS version %s is below minimum %s", rec.OSVersion, req.MinVersion)
}

// compareVersions compares two dotted version strings on their first three
// numeric components, zero-padding the shorter one. Returns -1, 0 or 1.
func compareVersions(a, b string) (int, error) {
	av, err := versionTuple(a)
	if err != nil {
		return 0, err
	}
	bv, err := versionTuple(b)
	if err != nil {
		return 0, err
	}

	for i := 0; i < 3; i++ {
		switch {
		case av[i] < bv[i]:
			return -1, nil
		case av[i] > bv[i]:
			return 1, nil
		}
	}
	return 0, nil
}

func versionTuple(v string) ([3]int, error) {
	var out [3]int

	parts := strings.Split(strings.TrimSpace(v), ".")
	for i := 0; i < 3 && i < len(parts); i++ {
		// Tolerate suffixes like "22H2" by taking the leading digits
		digits := leadingDigits(parts[i])
		if digits == "" {
			return out, fmt.Errorf("invalid version component %q in %q", parts[i], v)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return out, fmt.Errorf("invalid version component %q in %q", parts[i], v)
		}
		out[i] = n
	}
	return out, nil
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}
