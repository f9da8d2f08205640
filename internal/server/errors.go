package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab/internal/auth"
	"github.com/hisaab-app/hisaab/internal/calculator"
	"github.com/hisaab-app/hisaab/internal/models"
	"github.com/hisaab-app/hisaab/internal/money"
	"github.com/hisaab-app/hisaab/internal/service"
	"github.com/hisaab-app/hisaab/internal/storage"
)

// writeError maps domain errors onto the HTTP error taxonomy:
// validation 400, bad credentials 401, not-a-member 403, missing documents
// 404, conflicts 409, everything else a generic 500 (the store error detail
// stays in the server log, not the response).
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong, please try again"

	switch {
	case isValidationError(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrNotMember):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, models.ErrAlreadyMember), errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func isValidationError(err error) bool {
	var mismatch *calculator.MismatchedTotalError
	return errors.Is(err, models.ErrInvalidName) ||
		errors.Is(err, auth.ErrWeakPassword) ||
		errors.Is(err, auth.ErrBlankName) ||
		errors.Is(err, service.ErrBlankDescription) ||
		errors.Is(err, calculator.ErrEmptyMemberList) ||
		errors.Is(err, calculator.ErrInvalidTotal) ||
		errors.Is(err, calculator.ErrBlankMemberName) ||
		errors.Is(err, money.ErrInvalidAmount) ||
		errors.As(err, &mismatch)
}
