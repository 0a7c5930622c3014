package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/vendora/vendora/internal/billing/domain"
	invoicedomain "github.com/vendora/vendora/internal/invoice/domain"
	"github.com/vendora/vendora/pkg/db/pagination"
)

type createInvoiceRequest struct {
	OrganizationID string     `json:"organization_id"`
	PeriodStart    *time.Time `json:"period_start"`
	PeriodEnd      *time.Time `json:"period_end"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// Default to the previous calendar month when no period is given.
	start, end := billingdomain.PreviousMonthWindow(time.Now().UTC())
	if req.PeriodStart != nil && req.PeriodEnd != nil {
		start, end = *req.PeriodStart, *req.PeriodEnd
	} else if req.PeriodStart != nil || req.PeriodEnd != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateRequest{
		OrganizationID: req.OrganizationID,
		PeriodStart:    start,
		PeriodEnd:      end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

type bulkGenerateRequest struct {
	Reference *time.Time `json:"reference"`
}

// BulkGenerateInvoices invoices every organization for the month of the
// given reference time, previous month by default.
func (s *Server) BulkGenerateInvoices(c *gin.Context) {
	ref, _ := billingdomain.PreviousMonthWindow(time.Now().UTC())
	if c.Request.ContentLength > 0 {
		var req bulkGenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		if req.Reference != nil {
			ref = *req.Reference
		}
	}

	results, err := s.invoiceSvc.BulkGenerateMonthly(c.Request.Context(), ref)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type invoiceView struct {
	*invoicedomain.OrganizationInvoice
	DisplayStatus string `json:"display_status"`
}

func newInvoiceView(invoice *invoicedomain.OrganizationInvoice) invoiceView {
	return invoiceView{OrganizationInvoice: invoice, DisplayStatus: invoice.DisplayStatus()}
}

func (s *Server) GetInvoice(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invoice, err := s.invoiceSvc.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceView(invoice))
}

func (s *Server) ListInvoices(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoices, pageInfo, err := s.invoiceSvc.List(c.Request.Context(), actor, invoicedomain.ListRequest{
		OrganizationID: c.Query("organization_id"),
		Statuses:       c.QueryArray("status"),
		Page:           page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	views := make([]invoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, newInvoiceView(invoice))
	}
	c.JSON(http.StatusOK, gin.H{"invoices": views, "page_info": pageInfo})
}

func (s *Server) RecordInvoicePayment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req invoicedomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.InvoiceID = c.Param("id")

	invoice, err := s.invoiceSvc.RecordManualPayment(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) ListInvoicePayments(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	payments, err := s.invoiceSvc.ListPayments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (s *Server) SendInvoiceEmail(c *gin.Context) {
	if err := s.invoiceSvc.SendInvoiceEmail(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	invoice, err := s.invoiceSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CreateInvoiceOnlineOrder opens a gateway order so the organization
// can pay the outstanding balance from the billing portal.
func (s *Server) CreateInvoiceOnlineOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	order, err := s.invoiceSvc.CreateOnlineOrder(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) VerifyInvoiceOnlinePayment(c *gin.Context) {
	var req invoicedomain.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.invoiceSvc.VerifyOnlinePayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) DashboardOverview(c *gin.Context) {
	overview, err := s.dashboardSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
