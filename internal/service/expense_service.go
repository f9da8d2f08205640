package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hisaab-app/hisaab/internal/calculator"
	"github.com/hisaab-app/hisaab/internal/feed"
	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
	"github.com/hisaab-app/hisaab/internal/storage"
)

// ErrBlankDescription is returned when an expense is submitted without a
// description.
var ErrBlankDescription = errors.New("description cannot be blank")

// ExpenseInput carries a submitted expense before validation.
type ExpenseInput struct {
	Description string
	Category    string
	ExpenseDate string // YYYY-MM-DD
	Total       money.Money

	// Equal requests a server-computed equal split across the group's
	// members; Lines is ignored when set.
	Equal bool

	// Lines are the manually entered shares (names and amounts; member ids
	// are resolved here against the group's member profiles).
	Lines []models.SplitLine
}

// ExpenseService validates submitted expenses, appends them to the group
// ledger and wakes the live history feeds.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
	hub    *feed.Hub
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, groups *GroupService, hub *feed.Hub) *ExpenseService {
	return &ExpenseService{store: store, groups: groups, hub: hub}
}

// AddExpense validates and durably appends an expense to the group's ledger,
// then notifies the group's live feeds. The caller must be a member of the
// group. Note the append has no dedup key: retrying after an ambiguous store
// failure may record the expense twice.
func (s *ExpenseService) AddExpense(ctx context.Context, groupID, payerID string, input ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(payerID) {
		return nil, ErrNotMember
	}

	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrBlankDescription
	}

	profiles := s.groups.memberProfiles(ctx, group)

	lines := input.Lines
	if input.Equal {
		names := make([]string, len(profiles))
		for i, p := range profiles {
			names[i] = p.Name
		}
		lines, err = calculator.SplitEqually(input.Total, names)
		if err != nil {
			return nil, err
		}
	} else if err := calculator.ValidateManualSplit(input.Total, lines); err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].MemberID = calculator.ResolveMemberID(lines[i].MemberName, profiles)
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		TotalAmount: input.Total,
		ExpenseDate: input.ExpenseDate,
		Payer:       models.Payer{UserID: payerID, Name: payerName(payerID, profiles)},
		SplitLines:  lines,
	}

	if err := s.store.AppendExpense(ctx, expense); err != nil {
		slog.Error("AppendExpense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	s.hub.Notify(groupID)

	slog.Info("Expense added",
		"group_id", groupID,
		"expense_id", expense.ID,
		"total", expense.TotalAmount.Format(),
		"lines", len(expense.SplitLines),
	)
	return expense, nil
}

// History returns the group's full ledger, newest first. The caller must be
// a member of the group.
func (s *ExpenseService) History(ctx context.Context, groupID, userID string) ([]*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, ErrNotMember
	}
	return s.store.ListGroupExpenses(ctx, groupID)
}

// Subscribe starts a live history feed for the group on behalf of a member.
// The returned handle must be cancelled when the consumer goes away.
func (s *ExpenseService) Subscribe(ctx context.Context, groupID, userID string, onSnapshot func([]*models.Expense), onError func(error)) (*feed.Handle, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, ErrNotMember
	}
	return s.hub.Subscribe(ctx, groupID, onSnapshot, onError), nil
}

// payerName resolves the payer's display name from the member profiles.
func payerName(payerID string, profiles []models.Profile) string {
	for _, p := range profiles {
		if p.ID == payerID {
			return p.Name
		}
	}
	return "Unknown User"
}
