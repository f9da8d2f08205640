package calculator

import (
	"errors"
	"testing"

	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name         string
		totalPaise   int64
		members      []string
		wantErr      error
		validateFunc func(t *testing.T, lines []models.SplitLine)
	}{
		{
			name:       "100.00 across three members",
			totalPaise: 10000,
			members:    []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, lines []models.SplitLine) {
				want := []int64{3334, 3333, 3333}
				for i, line := range lines {
					if line.Amount.Paise() != want[i] {
						t.Errorf("line %d (%s) = %d paise, want %d", i, line.MemberName, line.Amount.Paise(), want[i])
					}
				}
			},
		},
		{
			name:       "even division leaves no remainder",
			totalPaise: 9000,
			members:    []string{"Asha", "Ravi", "Meera"},
			validateFunc: func(t *testing.T, lines []models.SplitLine) {
				for _, line := range lines {
					if line.Amount.Paise() != 3000 {
						t.Errorf("%s = %d paise, want 3000", line.MemberName, line.Amount.Paise())
					}
				}
			},
		},
		{
			name:       "single member gets the whole total",
			totalPaise: 555,
			members:    []string{"Solo"},
			validateFunc: func(t *testing.T, lines []models.SplitLine) {
				if lines[0].Amount.Paise() != 555 {
					t.Errorf("got %d paise, want 555", lines[0].Amount.Paise())
				}
			},
		},
		{
			name:       "no members",
			totalPaise: 1000,
			members:    nil,
			wantErr:    ErrEmptyMemberList,
		},
		{
			name:       "zero total",
			totalPaise: 0,
			members:    []string{"A"},
			wantErr:    ErrInvalidTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := SplitEqually(money.FromPaise(tt.totalPaise), tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SplitEqually() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitEqually() failed: %v", err)
			}
			if len(lines) != len(tt.members) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.members))
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, lines)
			}
		})
	}
}

// Every split must sum exactly to the total with a spread of at most one
// paisa, whatever the total and member count.
func TestSplitEquallyExactSum(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}

	for _, totalPaise := range []int64{1, 7, 99, 10000, 12345, 99999999} {
		for n := 1; n <= len(names); n++ {
			total := money.FromPaise(totalPaise)
			lines, err := SplitEqually(total, names[:n])
			if err != nil {
				t.Fatalf("SplitEqually(%d paise, %d members) failed: %v", totalPaise, n, err)
			}

			var sum money.Money
			min, max := lines[0].Amount.Paise(), lines[0].Amount.Paise()
			for _, line := range lines {
				sum = sum.Add(line.Amount)
				if p := line.Amount.Paise(); p < min {
					min = p
				} else if p > max {
					max = p
				}
			}

			if sum.Cmp(total) != 0 {
				t.Errorf("%d paise / %d members: sum = %d, want exact total", totalPaise, n, sum.Paise())
			}
			if max-min > 1 {
				t.Errorf("%d paise / %d members: spread = %d paise, want <= 1", totalPaise, n, max-min)
			}
		}
	}
}

func TestValidateManualSplit(t *testing.T) {
	line := func(name string, paise int64) models.SplitLine {
		return models.SplitLine{MemberName: name, Amount: money.FromPaise(paise)}
	}

	tests := []struct {
		name       string
		totalPaise int64
		lines      []models.SplitLine
		wantErr    error
	}{
		{
			name:       "exact sum passes",
			totalPaise: 5000,
			lines:      []models.SplitLine{line("A", 2500), line("B", 2500)},
		},
		{
			name:       "one paisa off is within tolerance",
			totalPaise: 5000,
			lines:      []models.SplitLine{line("A", 2500), line("B", 2499)},
		},
		{
			name:       "mismatched total",
			totalPaise: 5000,
			lines:      []models.SplitLine{line("A", 2000), line("B", 2000)},
			wantErr:    &MismatchedTotalError{},
		},
		{
			name:       "no lines",
			totalPaise: 5000,
			lines:      nil,
			wantErr:    ErrEmptyMemberList,
		},
		{
			name:       "blank member name",
			totalPaise: 5000,
			lines:      []models.SplitLine{line("  ", 5000)},
			wantErr:    ErrBlankMemberName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManualSplit(money.FromPaise(tt.totalPaise), tt.lines)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateManualSplit() failed: %v", err)
				}
				return
			}

			var mismatch *MismatchedTotalError
			if errors.As(tt.wantErr, &mismatch) {
				var got *MismatchedTotalError
				if !errors.As(err, &got) {
					t.Fatalf("error = %v, want MismatchedTotalError", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Concrete scenario from the expense form: total 50.00 split as 20.00 + 20.00.
func TestValidateManualSplitReportsAmounts(t *testing.T) {
	total := money.FromPaise(5000)
	lines := []models.SplitLine{
		{MemberName: "Asha", Amount: money.FromPaise(2000)},
		{MemberName: "Ravi", Amount: money.FromPaise(2000)},
	}

	err := ValidateManualSplit(total, lines)
	var mismatch *MismatchedTotalError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want MismatchedTotalError", err)
	}
	if mismatch.Expected.Paise() != 5000 {
		t.Errorf("Expected = %d paise, want 5000", mismatch.Expected.Paise())
	}
	if mismatch.Actual.Paise() != 4000 {
		t.Errorf("Actual = %d paise, want 4000", mismatch.Actual.Paise())
	}
}

func TestResolveMemberID(t *testing.T) {
	members := []models.Profile{
		{ID: "u1", Name: "Asha"},
		{ID: "u2", Name: "Ravi"},
	}

	if got := ResolveMemberID("Ravi", members); got != "u2" {
		t.Errorf("ResolveMemberID(Ravi) = %q, want u2", got)
	}
	// Case-sensitive: "ravi" is a different name.
	if got := ResolveMemberID("ravi", members); got != "" {
		t.Errorf("ResolveMemberID(ravi) = %q, want empty", got)
	}
	if got := ResolveMemberID("Unknown", members); got != "" {
		t.Errorf("ResolveMemberID(Unknown) = %q, want empty", got)
	}
}
