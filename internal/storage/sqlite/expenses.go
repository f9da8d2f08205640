package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
)

// AppendExpense durably appends an expense to its group's ledger.
// ID and CreatedAt are assigned here, at write time, from the store clock.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.CreatedAt = s.timestamp()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, category, total_paise, expense_date, created_at, payer_id, payer_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Category,
		expense.TotalAmount.Paise(), expense.ExpenseDate, expense.CreatedAt,
		expense.Payer.UserID, expense.Payer.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, line := range expense.SplitLines {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, position, member_id, member_name, amount_paise) VALUES (?, ?, ?, ?, ?)",
			expense.ID, i, line.MemberID, line.MemberName, line.Amount.Paise(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListGroupExpenses returns the group's full ledger, newest first.
// Ties on created_at fall back to insertion order, still newest first.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, category, total_paise, expense_date, created_at, payer_id, payer_name
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var totalPaise int64
		err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Category,
			&totalPaise, &expense.ExpenseDate, &expense.CreatedAt,
			&expense.Payer.UserID, &expense.Payer.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.TotalAmount = money.FromPaise(totalPaise)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		lines, err := s.expenseSplits(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.SplitLines = lines
	}
	return expenses, nil
}

func (s *SQLiteStore) expenseSplits(ctx context.Context, expenseID string) ([]models.SplitLine, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, member_name, amount_paise FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split lines: %w", err)
	}
	defer rows.Close()

	var lines []models.SplitLine
	for rows.Next() {
		var line models.SplitLine
		var amountPaise int64
		if err := rows.Scan(&line.MemberID, &line.MemberName, &amountPaise); err != nil {
			return nil, fmt.Errorf("failed to scan split line: %w", err)
		}
		line.Amount = money.FromPaise(amountPaise)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split lines: %w", err)
	}
	return lines, nil
}
