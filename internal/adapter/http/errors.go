package http

import (
	"errors"
	"net/http"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/pkg/id"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type missingParamError struct{ name string }

func (e missingParamError) Error() string { return "missing " + e.name + " path param" }

// pathUUID reads a UUID path param. A malformed id cannot match any row, so
// it is reported as notFound.
func pathUUID(c echo.Context, name string, notFound error) (string, error) {
	raw := c.Param(name)
	if raw == "" {
		return "", missingParamError{name: name}
	}
	v := id.Normalize(raw)
	if !id.Valid(v) {
		return "", notFound
	}
	return v, nil
}

// bindAndValidate writes the 400 itself and reports ok=false when req is unusable.
func bindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// writeError maps domain errors → HTTP codes.
func writeError(c echo.Context, err error) error {
	var missing missingParamError
	switch {
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: missing.Error()})
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, loan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, customer.ErrInvalidInput), errors.Is(err, loan.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrOverpayment), errors.Is(err, loan.ErrLoanClosed):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
