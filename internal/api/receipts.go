package api

import (
	"net/http"

	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/receipt"
	"github.com/gin-gonic/gin"
)

// ReceiptQuery selects the payee and amount printed on a receipt.
type ReceiptQuery struct {
	Target string `form:"target" validate:"required,oneof=customer supplier investment"`
	ID     string `form:"id" validate:"required"`
	Amount string `form:"amount" validate:"required"`
}

// GetReceipt handles GET /v1/receipts and returns an HTML page.
func (s *Server) GetReceipt(c *gin.Context) {
	var q ReceiptQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid query")
		return
	}
	if validationErrors := ValidateRequest(q); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return
	}

	kind, err := ledger.ParseTargetKind(q.Target)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	amount, ok := ledger.ParsePositiveAmount(q.Amount)
	if !ok {
		RespondWithError(c, http.StatusBadRequest, "Amount must be a positive number")
		return
	}

	payee, found := s.store.Payee(ledger.PaymentTarget{ID: q.ID, Kind: kind})
	if !found {
		RespondWithError(c, http.StatusNotFound, "Record not found")
		return
	}

	renderer := *s.receipts
	renderer.Standalone = true
	html, err := renderer.HTML(receipt.Receipt{
		Profile: s.store.AdminProfile(),
		Date:    s.now(),
		Payee:   payee,
		Amount:  amount,
	})
	if err != nil {
		s.logger.Error("failed to render receipt", "error", err)
		RespondWithError(c, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
