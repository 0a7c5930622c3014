package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

// StorefrontCheckout prices the cart and opens a gateway order. The
// response carries everything the embedded checkout widget needs.
func (s *Server) StorefrontCheckout(c *gin.Context) {
	var req transactiondomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.transactionSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VerifyStorefrontPayment settles a gateway capture against its pending
// transaction. The gateway redirects the shopper here after payment.
func (s *Server) VerifyStorefrontPayment(c *gin.Context) {
	var req paymentdomain.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	txn, err := s.paymentSvc.VerifyAndRecord(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

// RecordCoinPayment ingests one coin drop reported by a machine.
func (s *Server) RecordCoinPayment(c *gin.Context) {
	var req coindomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.coinSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordPaymentRecorded(c.Request.Context(), "coin")
	c.JSON(http.StatusCreated, payment)
}
