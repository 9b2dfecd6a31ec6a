package http

import (
	"net/http"

	"loan-ledger/internal/domain/loan"
	ucPayment "loan-ledger/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const paymentRecordedMsg = "Payment recorded successfully."

type PaymentHandler struct{ uc *ucPayment.Usecase }

func NewPaymentHandler(uc *ucPayment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type recordPaymentReq struct {
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0,dec2,lte=9999999999.99"`
	PaymentType string          `json:"payment_type" validate:"required,oneof=EMI LUMP_SUM"`
}

type paymentResp struct {
	PaymentID        string  `json:"payment_id"`
	LoanID           string  `json:"loan_id"`
	Message          string  `json:"message"`
	RemainingBalance float64 `json:"remaining_balance"`
	EMIsLeft         int     `json:"emis_left"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	// Validate path param
	loanID, err := pathUUID(c, "loan_id", loan.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	// Bind + validate body payload JSON
	var req recordPaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	dto, err := h.uc.Record(c.Request().Context(), ucPayment.RecordPaymentInput{
		LoanID:      loanID,
		Amount:      req.Amount,
		PaymentType: req.PaymentType,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, paymentResp{
		PaymentID:        dto.PaymentID,
		LoanID:           dto.LoanID,
		Message:          paymentRecordedMsg,
		RemainingBalance: money(dto.RemainingBalance),
		EMIsLeft:         dto.EMIsLeft,
	})
}
