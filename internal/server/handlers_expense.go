package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab/internal/middleware"
	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
	"github.com/hisaab-app/hisaab/internal/service"
)

type splitLineRequest struct {
	Name   string      `json:"name"`
	Amount money.Money `json:"amount"`
}

type addExpenseRequest struct {
	Description string      `json:"description"`
	Category    string      `json:"category"`
	ExpenseDate string      `json:"expenseDate"`
	TotalAmount money.Money `json:"totalAmount"`

	// Split is "equal" for a server-computed equal split, anything else
	// (or empty) means SplitWith carries the manual lines.
	Split     string             `json:"split,omitempty"`
	SplitWith []splitLineRequest `json:"splitWith,omitempty"`
}

func (s *Server) handleAddExpense(c *gin.Context) {
	var req addExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lines := make([]models.SplitLine, len(req.SplitWith))
	for i, line := range req.SplitWith {
		lines[i] = models.SplitLine{MemberName: line.Name, Amount: line.Amount}
	}

	expense, err := s.expenses.AddExpense(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), service.ExpenseInput{
		Description: req.Description,
		Category:    req.Category,
		ExpenseDate: req.ExpenseDate,
		Total:       req.TotalAmount,
		Equal:       req.Split == "equal",
		Lines:       lines,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

func (s *Server) handleListExpenses(c *gin.Context) {
	expenses, err := s.expenses.History(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}
