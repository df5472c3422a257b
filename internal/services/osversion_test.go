package services

import (
	"testing"

	"github.com/fleetlens/fleetlens/internal/testutil"
)

// The fixed test clock sits at 2025-06-15, between the Windows 11 22H2 end
// of support (2024-10-08) and the 23H2 one (2025-10-14).
func TestAnalyzeWindows(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	tests := []struct {
		name          string
		version       string
		build         string
		wantRelease   string
		wantSupported bool
	}{
		{"windows 11 23H2 supported", "10.0.22631", "22631", "23H2", true},
		{"windows 11 22H2 past eos", "10.0.22621", "22621", "22H2", false},
		{"windows 11 24H2 supported", "10.0.26100", "26100", "24H2", true},
		{"windows 10 22H2 supported", "10.0.19045", "19045", "22H2", true},
		{"windows 10 21H2 past eos", "10.0.19044", "19044", "21H2", false},
		{"windows 11 canary assumed supported", "10.0.25398", "25398", "Canary", true},
		{"build from separate field", "10.0", "22631", "23H2", true},
		{"old windows unsupported", "6.3.9600", "9600", "Unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := analyzer.Analyze("Windows", tt.version, tt.build)
			if info.ReleaseName != tt.wantRelease {
				t.Errorf("ReleaseName = %q, want %q", info.ReleaseName, tt.wantRelease)
			}
			if info.IsSupported != tt.wantSupported {
				t.Errorf("IsSupported = %v, want %v", info.IsSupported, tt.wantSupported)
			}
		})
	}
}

func TestAnalyzeWindows10To11Reclassification(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	// Windows 11 reports a 10.x version; builds at 22000+ are Windows 11
	info := analyzer.Analyze("Windows", "10.0.22000", "22000")
	if info.ReleaseName != "21H2" {
		t.Errorf("ReleaseName = %q, want 21H2", info.ReleaseName)
	}
	// Windows 11 21H2 ended support 2023-10-10
	if info.IsSupported {
		t.Error("windows 11 21H2 should be past end of support")
	}
}

func TestAnalyzeMacOS(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	tests := []struct {
		version       string
		wantRelease   string
		wantSupported bool
	}{
		{"15.2", "Sequoia", true},
		{"14.5", "Sonoma", true},
		{"13.6.1", "Ventura", true},
		{"12.7", "Monterey", false},
		{"11.7.10", "Big Sur", false},
		{"16.0", "macOS 16", true}, // not in table, heuristic: major >= 13
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			info := analyzer.Analyze("macOS", tt.version, "")
			if info.ReleaseName != tt.wantRelease {
				t.Errorf("ReleaseName = %q, want %q", info.ReleaseName, tt.wantRelease)
			}
			if info.IsSupported != tt.wantSupported {
				t.Errorf("IsSupported = %v, want %v", info.IsSupported, tt.wantSupported)
			}
		})
	}
}

func TestAnalyzeMobile(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	t.Run("ios supported", func(t *testing.T) {
		info := analyzer.Analyze("iOS", "17.5.1", "")
		if info.ReleaseName != "iOS 17" || !info.IsSupported {
			t.Errorf("got %q supported=%v", info.ReleaseName, info.IsSupported)
		}
	})

	t.Run("ios past eos", func(t *testing.T) {
		if info := analyzer.Analyze("iOS", "15.8", ""); info.IsSupported {
			t.Error("iOS 15 should be past end of support")
		}
	})

	t.Run("android supported", func(t *testing.T) {
		info := analyzer.Analyze("Android", "14", "")
		if info.ReleaseName != "Android 14" || !info.IsSupported {
			t.Errorf("got %q supported=%v", info.ReleaseName, info.IsSupported)
		}
	})

	t.Run("android heuristic above table", func(t *testing.T) {
		if info := analyzer.Analyze("Android", "16", ""); !info.IsSupported {
			t.Error("Android 16 should fall back to supported via heuristic")
		}
	})
}

func TestAnalyzeLinux(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	tests := []struct {
		version string
		want    string
	}{
		{"Ubuntu 22.04.3 LTS", "Ubuntu"},
		{"Debian GNU/Linux 12", "Debian"},
		{"Red Hat Enterprise Linux 9.2", "Red Hat"},
		{"5.15.0-generic", "Linux"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			info := analyzer.Analyze("Linux", tt.version, "")
			if info.ReleaseName != tt.want {
				t.Errorf("ReleaseName = %q, want %q", info.ReleaseName, tt.want)
			}
			if !info.IsSupported {
				t.Error("linux is assumed supported")
			}
		})
	}
}

func TestAnalyzeLatestVersions(t *testing.T) {
	analyzer := NewOSVersionAnalyzer(testutil.NewFixedClock())

	info := analyzer.Analyze("Windows 11 Enterprise", "10.0.26100", "26100")
	if info.OSName != "windows" {
		t.Errorf("OSName = %q, want windows", info.OSName)
	}
	if info.LatestVersion != "11" || info.LatestBuild != "24H2" {
		t.Errorf("latest = %s/%s, want 11/24H2", info.LatestVersion, info.LatestBuild)
	}
}
