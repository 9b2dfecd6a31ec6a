package http

import (
	"net/http"

	"loan-ledger/internal/domain/customer"
	ucCustomer "loan-ledger/internal/usecase/customer"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct{ uc *ucCustomer.Usecase }

func NewCustomerHandler(uc *ucCustomer.Usecase) *CustomerHandler { return &CustomerHandler{uc: uc} }

type createCustomerReq struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req createCustomerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), ucCustomer.CreateCustomerInput{Name: req.Name, Email: req.Email})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	customerID, err := pathUUID(c, "customer_id", customer.ErrNotFound)
	if err != nil {
		return writeError(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
