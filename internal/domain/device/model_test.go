package device

import "testing"

func TestInferClass(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   Class
	}{
		{
			name:   "laptop keyword in name",
			record: Record{DeviceName: "FINANCE-LAPTOP-01", OperatingSystem: "Windows"},
			want:   ClassLaptop,
		},
		{
			name:   "name keyword beats model keyword",
			record: Record{DeviceName: "ENG-DESKTOP-02", Model: "MacBook Pro", OperatingSystem: "macOS"},
			want:   ClassDesktop,
		},
		{
			name:   "server keyword",
			record: Record{DeviceName: "PROD-ESXI-HOST", OperatingSystem: "Linux"},
			want:   ClassServer,
		},
		{
			name:   "model fallback to laptop",
			record: Record{DeviceName: "WS-0042", Model: "ThinkPad X1", OperatingSystem: "Windows"},
			want:   ClassLaptop,
		},
		{
			name:   "windows os guess is desktop",
			record: Record{DeviceName: "WS-0042", Model: "EliteDesk 800", OperatingSystem: "Windows"},
			want:   ClassDesktop,
		},
		{
			name:   "surface name keyword is tablet",
			record: Record{DeviceName: "ENG-SURFACE-09", OperatingSystem: "Windows"},
			want:   ClassTablet,
		},
		{
			name:   "macbook model guesses laptop",
			record: Record{DeviceName: "XJ-1", Model: "MacBook Air", OperatingSystem: "macOS"},
			want:   ClassLaptop,
		},
		{
			name:   "iphone model guesses mobile",
			record: Record{DeviceName: "XJ-2", Model: "iPhone 15", OperatingSystem: "iOS"},
			want:   ClassMobile,
		},
		{
			name:   "ios without iphone guesses tablet",
			record: Record{DeviceName: "XJ-3", Model: "A2602", OperatingSystem: "iOS"},
			want:   ClassTablet,
		},
		{
			name:   "android guesses mobile",
			record: Record{DeviceName: "XJ-4", Model: "SM-S901", OperatingSystem: "Android"},
			want:   ClassMobile,
		},
		{
			name:   "nothing matches",
			record: Record{DeviceName: "XJ-5", OperatingSystem: "ChromeOS"},
			want:   ClassUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.InferClass(); got != tt.want {
				t.Errorf("InferClass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	rec := Record{OperatingSystem: "Windows 11 Enterprise"}
	if got := rec.Platform(); got != "windows 11 enterprise" {
		t.Errorf("Platform() = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := (&Record{DeviceName: "HOST-1"}).DisplayName(); got != "HOST-1" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := (&Record{}).DisplayName(); got != "Unknown" {
		t.Errorf("DisplayName() on empty = %q, want Unknown", got)
	}
}
