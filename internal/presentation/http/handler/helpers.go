package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/application/billing"
	"github.com/shopmitra/billing-api/internal/presentation/http/dto/response"
	"github.com/shopmitra/billing-api/pkg/apperror"
)

// bindError wraps a request binding failure as a validation error.
func bindError(err error) *apperror.AppError {
	return apperror.NewValidationError([]apperror.FieldError{
		{Field: "body", Message: err.Error()},
	})
}

// getSession resolves the :id path parameter to a live session. On any
// failure the response has already been written and nil is returned.
func getSession(c *gin.Context, sessions *billing.SessionManager) *billing.Session {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return nil
	}
	session, ok := sessions.Get(id)
	if !ok {
		response.NotFound(c, "Billing session not found")
		return nil
	}
	return session
}
