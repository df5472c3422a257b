package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fleetlens/fleetlens/internal/domain/patch"
)

// supportEntry is one OS release lifecycle record
type supportEntry struct {
	name      string // release name override, e.g. "Ventura"
	eos       string // end of support date, YYYY-MM-DD
	supported bool   // fallback when eos is absent or unparseable
}

// Lifecycle tables. These are a bundled snapshot; production deployments
// would refresh them from vendor lifecycle feeds.
var (
	windowsSupport = map[string]map[string]supportEntry{
		"11": {
			"21H2": {eos: "2023-10-10", supported: false},
			"22H2": {eos: "2024-10-08", supported: true},
			"23H2": {eos: "2025-10-14", supported: true},
			"24H2": {eos: "2026-10-13", supported: true},
		},
		"10": {
			"21H2": {eos: "2023-06-13", supported: false},
			"22H2": {eos: "2025-10-14", supported: true},
		},
	}

	macosSupport = map[string]supportEntry{
		"15": {name: "Sequoia", eos: "2027-10-01", supported: true},
		"14": {name: "Sonoma", eos: "2026-10-01", supported: true},
		"13": {name: "Ventura", eos: "2025-10-01", supported: true},
		"12": {name: "Monterey", eos: "2024-10-01", supported: false},
		"11": {name: "Big Sur", eos: "2023-10-01", supported: false},
	}

	iosSupport = map[string]supportEntry{
		"18": {eos: "2027-09-01", supported: true},
		"17": {eos: "2026-09-01", supported: true},
		"16": {eos: "2025-09-01", supported: true},
		"15": {eos: "2024-09-01", supported: false},
	}

	androidSupport = map[string]supportEntry{
		"15": {eos: "2027-09-01", supported: true},
		"14": {eos: "2026-09-01", supported: true},
		"13": {eos: "2025-09-01", supported: true},
		"12": {eos: "2024-09-01", supported: false},
		"11": {eos: "2023-09-01", supported: false},
	}

	windowsBuildReleases = map[string]string{
		"19044": "21H2",
		"19045": "22H2",
		"22000": "21H2",
		"22621": "22H2",
		"22631": "23H2",
		"26100": "24H2",
		"25398": "Canary",
	}

	macosReleases = map[string]string{
		"15": "Sequoia",
		"14": "Sonoma",
		"13": "Ventura",
		"12": "Monterey",
		"11": "Big Sur",
		"10": "Catalina",
	}

	latestVersions = map[string]struct{ version, build string }{
		"windows": {"11", "24H2"},
		"macos":   {"15", "15.2"},
		"ios":     {"18", "18.2"},
		"android": {"15", "15"},
		"linux":   {"varies", "varies"},
	}
)

// OSVersionAnalyzer resolves OS version strings into normalized support
// information.
type OSVersionAnalyzer struct {
	clock Clock
}

// NewOSVersionAnalyzer creates an analyzer with the given clock
func NewOSVersionAnalyzer(clock Clock) *OSVersionAnalyzer {
	return &OSVersionAnalyzer{clock: clock}
}

// Analyze resolves the support status for an OS version. Resolution is
// three-tier: an exact lifecycle table hit wins, then the table's supported
// flag, then a numeric major-version heuristic. Unknown platforms are
// assumed supported rather than flagged.
func (a *OSVersionAnalyzer) Analyze(osName, version, build string) *patch.OSVersionInfo {
	name := strings.ToLower(osName)
	now := a.clock.Now()

	info := &patch.OSVersionInfo{
		OSName:      name,
		Version:     version,
		BuildNumber: build,
		IsSupported: true,
	}

	family := osFamily(name)
	if latest, ok := latestVersions[family]; ok {
		info.OSName = family
		info.LatestVersion = latest.version
		info.LatestBuild = latest.build
	}

	switch family {
	case "windows":
		a.analyzeWindows(info, version, build, now)
	case "macos":
		a.analyzeMacOS(info, version, now)
	case "ios":
		a.analyzeIOS(info, version, now)
	case "android":
		a.analyzeAndroid(info, version, now)
	case "linux":
		info.ReleaseName = parseLinuxDistro(version)
	}

	return info
}

func osFamily(name string) string {
	switch {
	case strings.Contains(name, "windows"):
		return "windows"
	case strings.Contains(name, "mac"):
		return "macos"
	case strings.Contains(name, "ios"):
		return "ios"
	case strings.Contains(name, "android"):
		return "android"
	case strings.Contains(name, "linux"):
		return "linux"
	}
	return name
}

// analyzeWindows handles the Windows 10/11 build quirk: both report a "10."
// version prefix, so builds at or above 22000 are reclassified as Windows 11.
func (a *OSVersionAnalyzer) analyzeWindows(info *patch.OSVersionInfo, version, build string, now time.Time) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return
	}

	major := parts[0]
	buildNumber := build
	if len(parts) > 2 && parts[len(parts)-1] != "" {
		buildNumber = parts[len(parts)-1]
	}

	windowsVersion := major
	if major == "10" {
		windowsVersion = "10"
		if n, err := strconv.Atoi(buildNumber); err == nil && n >= 22000 {
			windowsVersion = "11"
		}
	}

	release := buildNumber
	if name, ok := windowsBuildReleases[buildNumber]; ok {
		release = name
	}
	if major != "10" && major != "11" {
		release = "Unknown"
	}
	info.ReleaseName = release

	if entry, ok := windowsSupport[windowsVersion][release]; ok {
		applySupportEntry(info, entry, now)
		return
	}
	info.IsSupported = guessWindowsSupport(windowsVersion, release, now)
}

func guessWindowsSupport(version, release string, now time.Time) bool {
	switch version {
	case "11":
		return true
	case "10":
		if release == "22H2" {
			return now.Year() < 2025 || (now.Year() == 2025 && now.Month() <= time.October)
		}
		return false
	default:
		return false
	}
}

func (a *OSVersionAnalyzer) analyzeMacOS(info *patch.OSVersionInfo, version string, now time.Time) {
	major := majorVersion(version)

	if name, ok := macosReleases[major]; ok {
		info.ReleaseName = name
	} else {
		info.ReleaseName = fmt.Sprintf("macOS %s", major)
	}

	if entry, ok := macosSupport[major]; ok {
		applySupportEntry(info, entry, now)
		return
	}
	if n, err := strconv.Atoi(major); err == nil {
		info.IsSupported = n >= 13
	}
}

func (a *OSVersionAnalyzer) analyzeIOS(info *patch.OSVersionInfo, version string, now time.Time) {
	major := majorVersion(version)
	info.ReleaseName = fmt.Sprintf("iOS %s", major)

	if entry, ok := iosSupport[major]; ok {
		applySupportEntry(info, entry, now)
		return
	}
	if n, err := strconv.Atoi(major); err == nil {
		info.IsSupported = n >= 16
	}
}

func (a *OSVersionAnalyzer) analyzeAndroid(info *patch.OSVersionInfo, version string, now time.Time) {
	major := majorVersion(version)
	info.ReleaseName = fmt.Sprintf("Android %s", major)

	if entry, ok := androidSupport[major]; ok {
		applySupportEntry(info, entry, now)
		return
	}
	if n, err := strconv.Atoi(major); err == nil {
		info.IsSupported = n >= 12
	}
}

// applySupportEntry resolves support from a lifecycle entry: the end of
// support date when it parses, the supported flag otherwise. A device is
// supported through the end of support day inclusive.
func applySupportEntry(info *patch.OSVersionInfo, entry supportEntry, now time.Time) {
	if entry.name != "" {
		info.ReleaseName = entry.name
	}
	if entry.eos != "" {
		if eos, err := time.Parse("2006-01-02", entry.eos); err == nil {
			info.EndOfSupport = &eos
			info.IsSupported = !now.After(eos)
			return
		}
	}
	info.IsSupported = entry.supported
}

func majorVersion(version string) string {
	if i := strings.Index(version, "."); i >= 0 {
		return version[:i]
	}
	return version
}

func parseLinuxDistro(version string) string {
	v := strings.ToLower(version)
	switch {
	case strings.Contains(v, "ubuntu"):
		return "Ubuntu"
	case strings.Contains(v, "debian"):
		return "Debian"
	case strings.Contains(v, "centos"):
		return "CentOS"
	case strings.Contains(v, "red hat"), strings.Contains(v, "redhat"), strings.Contains(v, "rhel"):
		return "Red Hat"
	case strings.Contains(v, "fedora"):
		return "Fedora"
	case strings.Contains(v, "suse"):
		return "SUSE"
	default:
		return "Linux"
	}
}
