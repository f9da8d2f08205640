package models

import "github.com/hisaab-app/hisaab/internal/money"

// SplitLine is one member's share of an expense.
type SplitLine struct {
	// MemberID is the user id of the member, or empty when the name was
	// typed without matching a known member. An unlinked line is still a
	// valid share; it just cannot be attributed to an account.
	MemberID string `json:"uid,omitempty"`

	// MemberName is the name as entered on the expense form.
	MemberName string `json:"name"`

	// Amount is this member's share.
	Amount money.Money `json:"amount"`
}

// Payer identifies who paid an expense.
type Payer struct {
	UserID string `json:"uid"`
	Name   string `json:"name"`
}

// Expense is one immutable entry in a group's ledger.
//
// Invariant: the split line amounts sum to TotalAmount within one paisa.
// ID and CreatedAt are assigned by the store at append time; CreatedAt uses
// the store clock, never the client clock.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group this expense belongs to. An expense is owned by
	// exactly one group and is never referenced independently.
	GroupID string `json:"groupId"`

	// Description is the human-readable label (e.g. "Dinner at Leela").
	Description string `json:"description"`

	// Category is the free-form expense category (e.g. "Food", "Travel").
	Category string `json:"category"`

	// TotalAmount is the full expense amount.
	TotalAmount money.Money `json:"totalAmount"`

	// ExpenseDate is the calendar date of the expense (YYYY-MM-DD, no time).
	ExpenseDate string `json:"expenseDate"`

	// CreatedAt is the store-assigned Unix millisecond append timestamp.
	CreatedAt int64 `json:"createdAt"`

	// Payer is who paid the expense.
	Payer Payer `json:"addedBy"`

	// SplitLines is the ordered list of shares. Always at least one line.
	SplitLines []SplitLine `json:"splitWith"`
}
