package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/gin-gonic/gin"
)

// CreatePartyRequest creates a customer or supplier.
type CreatePartyRequest struct {
	Name   string `json:"name" validate:"required"`
	Mobile string `json:"mobile" validate:"required,len=9,numeric"`
	// Credit is the supplier's opening balance; customers ignore it.
	Credit json.Number `json:"credit"`
}

// AmountRequest carries a debt or payment amount.
type AmountRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
}

// CreateInvestmentRequest records money lent or borrowed.
type CreateInvestmentRequest struct {
	Name   string      `json:"name" validate:"required"`
	Mobile string      `json:"mobile"`
	Type   string      `json:"type" validate:"required,oneof=given taken"`
	Amount json.Number `json:"amount" validate:"required"`
}

// CreateCheckRequest records a pending check.
type CreateCheckRequest struct {
	Number  string  `json:"number" validate:"required"`
	Bank    string  `json:"bank" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Contact string  `json:"contact" validate:"required"`
	Date    string  `json:"date" validate:"required"`
	Type    string  `json:"type" validate:"required,oneof=coming given"`
	Amount  float64 `json:"amount" validate:"gt=0"`
}

// GetSnapshot handles GET /v1/snapshot.
func (s *Server) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

// GetTotals handles GET /v1/totals.
func (s *Server) GetTotals(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Totals())
}

// ListCustomers handles GET /v1/customers.
func (s *Server) ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Customers())
}

// CreateCustomer handles POST /v1/customers.
func (s *Server) CreateCustomer(c *gin.Context) {
	var req CreatePartyRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := s.store.AddCustomer(req.Name, req.Mobile)
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// AddDebt handles POST /v1/customers/:id/debt.
func (s *Server) AddDebt(c *gin.Context) {
	s.amend(c, s.store.AddDebt, func(id string) (any, bool) { return s.store.Customer(id) })
}

// AddPayment handles POST /v1/customers/:id/payments.
func (s *Server) AddPayment(c *gin.Context) {
	s.amend(c, s.store.AddPayment, func(id string) (any, bool) { return s.store.Customer(id) })
}

// ListSuppliers handles GET /v1/suppliers.
func (s *Server) ListSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Suppliers())
}

// CreateSupplier handles POST /v1/suppliers.
func (s *Server) CreateSupplier(c *gin.Context) {
	var req CreatePartyRequest
	if !bindJSON(c, &req) {
		return
	}

	supplier, err := s.store.AddSupplier(req.Name, req.Mobile, req.Credit.String())
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// AddSupplierPayment handles POST /v1/suppliers/:id/payments.
func (s *Server) AddSupplierPayment(c *gin.Context) {
	s.amend(c, s.store.AddSupplierPayment, func(id string) (any, bool) { return s.store.Supplier(id) })
}

// ListInvestments handles GET /v1/investments?type=.
func (s *Server) ListInvestments(c *gin.Context) {
	typ := c.Query("type")
	if typ != "" {
		if _, err := model.ParseInvestmentType(typ); err != nil {
			RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, s.store.Investments(model.InvestmentType(typ)))
}

// CreateInvestment handles POST /v1/investments.
func (s *Server) CreateInvestment(c *gin.Context) {
	var req CreateInvestmentRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := s.store.AddInvestment(req.Name, req.Mobile, req.Amount.String(), model.InvestmentType(req.Type))
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// AddInvestmentPayment handles POST /v1/investments/:id/payments.
func (s *Server) AddInvestmentPayment(c *gin.Context) {
	s.amend(c, s.store.ProcessInvestmentPayment, func(id string) (any, bool) { return s.store.Investment(id) })
}

// ListChecks handles GET /v1/checks?type=.
func (s *Server) ListChecks(c *gin.Context) {
	typ := c.Query("type")
	if typ != "" {
		if _, err := model.ParseCheckType(typ); err != nil {
			RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, s.store.Checks(model.CheckType(typ)))
}

// CreateCheck handles POST /v1/checks.
func (s *Server) CreateCheck(c *gin.Context) {
	var req CreateCheckRequest
	if !bindJSON(c, &req) {
		return
	}

	check, err := s.store.AddCheck(model.CheckInput{
		Number:  req.Number,
		Bank:    req.Bank,
		Name:    req.Name,
		Contact: req.Contact,
		Date:    req.Date,
		Type:    model.CheckType(req.Type),
		Amount:  req.Amount,
	})
	if err != nil {
		respondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, check)
}

// PassCheck handles POST /v1/checks/:id/pass.
func (s *Server) PassCheck(c *gin.Context) {
	s.settle(c, s.store.PassCheck)
}

// BounceCheck handles POST /v1/checks/:id/bounce.
func (s *Server) BounceCheck(c *gin.Context) {
	s.settle(c, s.store.BounceCheck)
}

// GetProfile handles GET /v1/profile.
func (s *Server) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.AdminProfile())
}

// UpdateProfile handles PUT /v1/profile.
func (s *Server) UpdateProfile(c *gin.Context) {
	var req model.AdminProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.store.UpdateAdminProfile(req)
	c.JSON(http.StatusOK, s.store.AdminProfile())
}

// amend applies a debt or payment to the record named by :id and returns
// the updated record.
func (s *Server) amend(c *gin.Context, op func(id, amount string) ledger.Outcome, lookup func(id string) (any, bool)) {
	var req AmountRequest
	if !bindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	if !respondWithOutcome(c, op(id, req.Amount.String())) {
		return
	}
	record, _ := lookup(id)
	c.JSON(http.StatusOK, record)
}

func (s *Server) settle(c *gin.Context, op func(id string) ledger.Outcome) {
	id := c.Param("id")
	if !respondWithOutcome(c, op(id)) {
		return
	}
	check, _ := s.store.Check(id)
	c.JSON(http.StatusOK, check)
}

// respondWithOutcome writes the error response for a rejected amendment and
// reports whether the change was applied.
func respondWithOutcome(c *gin.Context, outcome ledger.Outcome) bool {
	switch outcome {
	case ledger.OK:
		return true
	case ledger.NotFound:
		RespondWithError(c, http.StatusNotFound, "Record not found")
	default:
		RespondWithError(c, http.StatusUnprocessableEntity, "Change rejected: "+outcome.String())
	}
	return false
}

func respondWithDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidMobile),
		errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidInvestmentType),
		errors.Is(err, common.ErrInvalidCheck):
		RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		RespondWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
