// Package calculator implements the expense split math: equal splits that
// sum exactly to the total, and validation of manually entered splits.
package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
)

var (
	// ErrEmptyMemberList is returned when a split has no members.
	ErrEmptyMemberList = errors.New("must split with at least one member")

	// ErrInvalidTotal is returned when an equal split is requested for a
	// non-positive total.
	ErrInvalidTotal = errors.New("total must be greater than zero")

	// ErrBlankMemberName is returned when a manually entered line has an
	// empty member name.
	ErrBlankMemberName = errors.New("member name cannot be blank")
)

// MismatchedTotalError reports a manual split whose line amounts do not sum
// to the expense total within one paisa.
type MismatchedTotalError struct {
	Expected money.Money // the expense total
	Actual   money.Money // the sum of the entered lines
}

func (e *MismatchedTotalError) Error() string {
	return fmt.Sprintf("split total (%s) doesn't match total amount (%s)",
		e.Actual.Format(), e.Expected.Format())
}

// SplitEqually divides total across the members in order.
//
// Division is done in integer paise: every member gets total/n and the
// remainder is handed out one paisa at a time to the first members, so the
// line amounts always sum to the total exactly and no two lines differ by
// more than one paisa. Naive per-member decimal division does not have this
// property (100.00 / 3 loses a paisa).
func SplitEqually(total money.Money, memberNames []string) ([]models.SplitLine, error) {
	if len(memberNames) == 0 {
		return nil, ErrEmptyMemberList
	}
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}

	n := int64(len(memberNames))
	base := total.Paise() / n
	remainder := total.Paise() % n

	lines := make([]models.SplitLine, len(memberNames))
	for i, name := range memberNames {
		share := base
		if int64(i) < remainder {
			share++
		}
		lines[i] = models.SplitLine{
			MemberName: name,
			Amount:     money.FromPaise(share),
		}
	}
	return lines, nil
}

// ValidateManualSplit checks manually entered split lines against the total.
// It fails with ErrEmptyMemberList, ErrBlankMemberName, or a
// *MismatchedTotalError when the line sum is more than one paisa off.
func ValidateManualSplit(total money.Money, lines []models.SplitLine) error {
	if len(lines) == 0 {
		return ErrEmptyMemberList
	}

	var sum money.Money
	for _, line := range lines {
		if strings.TrimSpace(line.MemberName) == "" {
			return ErrBlankMemberName
		}
		sum = sum.Add(line.Amount)
	}

	if !sum.EqualsWithin(total, money.Tolerance) {
		return &MismatchedTotalError{Expected: total, Actual: sum}
	}
	return nil
}

// ResolveMemberID matches an entered name against the group's member
// profiles, exact and case-sensitive. Returns "" on no match: the line is
// still valid, just not linked to an account.
func ResolveMemberID(name string, members []models.Profile) string {
	for _, m := range members {
		if m.Name == name {
			return m.ID
		}
	}
	return ""
}
