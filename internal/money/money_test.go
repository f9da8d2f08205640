package money

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		wantPaise int64
		wantErr   bool
	}{
		{name: "whole rupees", amount: 100.0, wantPaise: 10000},
		{name: "two decimals", amount: 33.34, wantPaise: 3334},
		{name: "zero", amount: 0, wantPaise: 0},
		{name: "rounds sub-paisa input", amount: 10.005, wantPaise: 1001},
		{name: "negative rejected", amount: -1.50, wantErr: true},
		{name: "NaN rejected", amount: math.NaN(), wantErr: true},
		{name: "infinity rejected", amount: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.amount)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%v) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
			if !tt.wantErr && m.Paise() != tt.wantPaise {
				t.Errorf("Parse(%v) = %d paise, want %d", tt.amount, m.Paise(), tt.wantPaise)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	a := FromPaise(3334)
	b := FromPaise(3333)

	if got := a.Add(b).Paise(); got != 6667 {
		t.Errorf("Add = %d, want 6667", got)
	}
	if got := b.Sub(a).Paise(); got != -1 {
		t.Errorf("Sub = %d, want -1 (negative intermediates allowed)", got)
	}
}

func TestEqualsWithin(t *testing.T) {
	a := FromPaise(5000)

	if !a.EqualsWithin(FromPaise(5001), Tolerance) {
		t.Error("amounts one paisa apart should be equal within tolerance")
	}
	if a.EqualsWithin(FromPaise(5002), Tolerance) {
		t.Error("amounts two paise apart should not be equal within tolerance")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		paise int64
		want  string
	}{
		{3334, "₹33.34"},
		{10000, "₹100.00"},
		{5, "₹0.05"},
		{0, "₹0.00"},
		{-150, "₹-1.50"},
	}

	for _, tt := range tests {
		if got := FromPaise(tt.paise).Format(); got != tt.want {
			t.Errorf("Format(%d paise) = %s, want %s", tt.paise, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := FromPaise(3334)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "33.34" {
		t.Errorf("Marshal = %s, want 33.34", data)
	}

	var decoded Money
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Paise() != original.Paise() {
		t.Errorf("round trip = %d paise, want %d", decoded.Paise(), original.Paise())
	}
}

func TestJSONRejectsGarbage(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Error("expected error for non-numeric input")
	}
}
