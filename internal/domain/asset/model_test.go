package asset

import (
	"testing"
	"time"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestCalculateCurrentValue(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  float64
	}{
		{
			name: "one year at 25 percent",
			asset: Asset{
				PurchasePrice:    1000,
				DepreciationRate: 0.25,
				PurchaseDate:     timePtr(now.AddDate(-1, 0, 0)),
			},
			want: 750,
		},
		{
			name: "floor at ten percent of purchase price",
			asset: Asset{
				PurchasePrice:    1000,
				DepreciationRate: 0.25,
				PurchaseDate:     timePtr(now.AddDate(-20, 0, 0)),
			},
			want: 100,
		},
		{
			name:  "no purchase date",
			asset: Asset{PurchasePrice: 1000, DepreciationRate: 0.25},
			want:  0,
		},
		{
			name: "future purchase date clamps to zero age",
			asset: Asset{
				PurchasePrice:    1000,
				DepreciationRate: 0.25,
				PurchaseDate:     timePtr(now.AddDate(1, 0, 0)),
			},
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.asset.CalculateCurrentValue(now)
			if diff := got - tt.want; diff > 1 || diff < -1 {
				t.Errorf("CalculateCurrentValue() = %.2f, want ~%.2f", got, tt.want)
			}
		})
	}
}

func TestCalculateWarrantyStatus(t *testing.T) {
	tests := []struct {
		name   string
		end    *time.Time
		window time.Duration
		want   WarrantyStatus
	}{
		{"no end date", nil, 90 * 24 * time.Hour, WarrantyUnknown},
		{"expired yesterday", timePtr(now.AddDate(0, 0, -1)), 90 * 24 * time.Hour, WarrantyExpired},
		{"expiring in 30 days", timePtr(now.AddDate(0, 0, 30)), 90 * 24 * time.Hour, WarrantyExpiringSoon},
		{"expiring at exactly the window", timePtr(now.Add(90 * 24 * time.Hour)), 90 * 24 * time.Hour, WarrantyExpiringSoon},
		{"active for a year", timePtr(now.AddDate(1, 0, 0)), 90 * 24 * time.Hour, WarrantyActive},
		{"narrow window keeps 60 days active", timePtr(now.Add(60 * 24 * time.Hour)), 30 * 24 * time.Hour, WarrantyActive},
		{"wide window flags 60 days", timePtr(now.Add(60 * 24 * time.Hour)), 120 * 24 * time.Hour, WarrantyExpiringSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Asset{WarrantyEndDate: tt.end}
			if got := a.CalculateWarrantyStatus(now, tt.window); got != tt.want {
				t.Errorf("CalculateWarrantyStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateAttention(t *testing.T) {
	window := 90 * 24 * time.Hour

	t.Run("healthy asset", func(t *testing.T) {
		a := Asset{
			Status:          StatusActive,
			AssignedTo:      "alice@example.com",
			WarrantyEndDate: timePtr(now.AddDate(1, 0, 0)),
			LastSeenDate:    timePtr(now.AddDate(0, 0, -2)),
		}
		a.UpdateAttention(now, window, window)
		if a.RequiresAttention {
			t.Errorf("unexpected attention: %s", a.AttentionReason)
		}
	})

	t.Run("expired warranty", func(t *testing.T) {
		a := Asset{
			Status:          StatusActive,
			AssignedTo:      "alice@example.com",
			WarrantyEndDate: timePtr(now.AddDate(0, -1, 0)),
			LastSeenDate:    timePtr(now),
		}
		a.UpdateAttention(now, window, window)
		if !a.RequiresAttention || a.AttentionReason != "Warranty expired" {
			t.Errorf("AttentionReason = %q, want %q", a.AttentionReason, "Warranty expired")
		}
	})

	t.Run("stolen and unseen", func(t *testing.T) {
		a := Asset{
			Status:          StatusStolen,
			AssignedTo:      "alice@example.com",
			WarrantyEndDate: timePtr(now.AddDate(1, 0, 0)),
			LastSeenDate:    timePtr(now.AddDate(0, 0, -120)),
		}
		a.UpdateAttention(now, window, window)
		if !a.RequiresAttention {
			t.Fatal("expected attention")
		}
		want := "Asset stolen; Not seen in 120 days"
		if a.AttentionReason != want {
			t.Errorf("AttentionReason = %q, want %q", a.AttentionReason, want)
		}
	})

	t.Run("active but unassigned", func(t *testing.T) {
		a := Asset{
			Status:          StatusActive,
			WarrantyEndDate: timePtr(now.AddDate(1, 0, 0)),
			LastSeenDate:    timePtr(now),
		}
		a.UpdateAttention(now, window, window)
		if a.AttentionReason != "Active but unassigned" {
			t.Errorf("AttentionReason = %q", a.AttentionReason)
		}
	})
}

func TestParseType(t *testing.T) {
	if got := ParseType("laptop"); got != TypeLaptop {
		t.Errorf("ParseType(laptop) = %v", got)
	}
	if got := ParseType("toaster"); got != TypeOther {
		t.Errorf("ParseType(toaster) = %v, want other", got)
	}
}
