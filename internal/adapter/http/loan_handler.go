package http

import (
	"net/http"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	ucLoan "loan-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *ucLoan.Usecase }

func NewLoanHandler(uc *ucLoan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	CustomerID         string           `json:"customer_id"          validate:"required,uuid"`
	LoanAmount         decimal.Decimal  `json:"loan_amount"          validate:"required,gt=0,dec2,lte=9999999999.99"`
	LoanPeriodYears    int              `json:"loan_period_years"    validate:"required,gte=1,lte=100"`
	InterestRateYearly *decimal.Decimal `json:"interest_rate_yearly" validate:"required,gte=0,dec2,lte=999.99"`
}

// Amounts go out as JSON numbers.
type createLoanResp struct {
	LoanID             string  `json:"loan_id"`
	CustomerID         string  `json:"customer_id"`
	TotalAmountPayable float64 `json:"total_amount_payable"`
	MonthlyEMI         float64 `json:"monthly_emi"`
}

type loanDetailResp struct {
	LoanID             string  `json:"loan_id"`
	CustomerID         string  `json:"customer_id"`
	CustomerName       string  `json:"customer_name"`
	CustomerEmail      string  `json:"customer_email"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	LoanPeriodYears    int     `json:"loan_period_years"`
	TotalInterest      float64 `json:"total_interest"`
	TotalAmountPayable float64 `json:"total_amount_payable"`
	MonthlyEMI         float64 `json:"monthly_emi"`
	Status             string  `json:"status"`
}

type transactionResp struct {
	TransactionID string    `json:"transaction_id"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
}

type ledgerResp struct {
	LoanID        string            `json:"loan_id"`
	CustomerID    string            `json:"customer_id"`
	Principal     float64           `json:"principal"`
	TotalAmount   float64           `json:"total_amount"`
	MonthlyEMI    float64           `json:"monthly_emi"`
	AmountPaid    float64           `json:"amount_paid"`
	BalanceAmount float64           `json:"balance_amount"`
	EMIsLeft      int               `json:"emis_left"`
	Transactions  []transactionResp `json:"transactions"`
}

type loanSummaryResp struct {
	LoanID          string  `json:"loan_id"`
	PrincipalAmount float64 `json:"principal_amount"`
	TotalAmount     float64 `json:"total_amount"`
	TotalInterest   float64 `json:"total_interest"`
	MonthlyEMI      float64 `json:"monthly_emi"`
	AmountPaid      float64 `json:"amount_paid"`
	EMIsLeft        int     `json:"emis_left"`
}

type overviewResp struct {
	CustomerID string            `json:"customer_id"`
	TotalLoans int               `json:"total_loans"`
	Loans      []loanSummaryResp `json:"loans"`
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), ucLoan.CreateLoanInput{
		CustomerID:         req.CustomerID,
		LoanAmount:         req.LoanAmount,
		LoanPeriodYears:    req.LoanPeriodYears,
		InterestRateYearly: *req.InterestRateYearly,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, createLoanResp{
		LoanID:             dto.LoanID,
		CustomerID:         dto.CustomerID,
		TotalAmountPayable: money(dto.TotalAmountPayable),
		MonthlyEMI:         money(dto.MonthlyEMI),
	})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, err := pathUUID(c, "loan_id", loan.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, loanDetailResp{
		LoanID:             dto.LoanID,
		CustomerID:         dto.CustomerID,
		CustomerName:       dto.CustomerName,
		CustomerEmail:      dto.CustomerEmail,
		LoanAmount:         money(dto.LoanAmount),
		InterestRate:       money(dto.InterestRate),
		LoanPeriodYears:    dto.LoanPeriodYears,
		TotalInterest:      money(dto.TotalInterest),
		TotalAmountPayable: money(dto.TotalAmountPayable),
		MonthlyEMI:         money(dto.MonthlyEMI),
		Status:             dto.Status,
	})
}

func (h *LoanHandler) Ledger(c echo.Context) error {
	loanID, err := pathUUID(c, "loan_id", loan.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Ledger(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}

	txs := make([]transactionResp, 0, len(dto.Transactions))
	for _, t := range dto.Transactions {
		txs = append(txs, transactionResp{
			TransactionID: t.TransactionID,
			Date:          t.Date,
			Amount:        money(t.Amount),
			Type:          t.Type,
		})
	}
	return c.JSON(http.StatusOK, ledgerResp{
		LoanID:        dto.LoanID,
		CustomerID:    dto.CustomerID,
		Principal:     money(dto.Principal),
		TotalAmount:   money(dto.TotalAmount),
		MonthlyEMI:    money(dto.MonthlyEMI),
		AmountPaid:    money(dto.AmountPaid),
		BalanceAmount: money(dto.BalanceAmount),
		EMIsLeft:      dto.EMIsLeft,
		Transactions:  txs,
	})
}

func (h *LoanHandler) ExportLedger(c echo.Context) error {
	loanID, err := pathUUID(c, "loan_id", loan.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Ledger(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	buf, err := ledgerWorkbook(dto)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ledgerFileName(dto.LoanID)+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// CustomerOverview answers 404 for a customer with no loans as well as for
// an unknown one.
func (h *LoanHandler) CustomerOverview(c echo.Context) error {
	customerID, err := pathUUID(c, "customer_id", customer.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Overview(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	if dto.TotalLoans == 0 {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no loans found for this customer"})
	}

	loans := make([]loanSummaryResp, 0, len(dto.Loans))
	for _, l := range dto.Loans {
		loans = append(loans, loanSummaryResp{
			LoanID:          l.LoanID,
			PrincipalAmount: money(l.PrincipalAmount),
			TotalAmount:     money(l.TotalAmount),
			TotalInterest:   money(l.TotalInterest),
			MonthlyEMI:      money(l.MonthlyEMI),
			AmountPaid:      money(l.AmountPaid),
			EMIsLeft:        l.EMIsLeft,
		})
	}
	return c.JSON(http.StatusOK, overviewResp{
		CustomerID: dto.CustomerID,
		TotalLoans: dto.TotalLoans,
		Loans:      loans,
	})
}
