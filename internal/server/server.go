// Package server wires the HTTP surface: route registration, auth
// middleware, and the error taxonomy.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	authdomain "github.com/vendora/vendora/internal/auth/domain"
	"github.com/vendora/vendora/internal/auth/session"
	"github.com/vendora/vendora/internal/authorization"
	billingdomain "github.com/vendora/vendora/internal/billing/domain"
	coindomain "github.com/vendora/vendora/internal/coinpayment/domain"
	"github.com/vendora/vendora/internal/config"
	invoicedomain "github.com/vendora/vendora/internal/invoice/domain"
	machinedomain "github.com/vendora/vendora/internal/machine/domain"
	"github.com/vendora/vendora/internal/observability"
	obslogger "github.com/vendora/vendora/internal/observability/logger"
	obsmetrics "github.com/vendora/vendora/internal/observability/metrics"
	obstracing "github.com/vendora/vendora/internal/observability/tracing"
	organizationdomain "github.com/vendora/vendora/internal/organization/domain"
	paymentdomain "github.com/vendora/vendora/internal/payment/domain"
	productdomain "github.com/vendora/vendora/internal/product/domain"
	profiledomain "github.com/vendora/vendora/internal/profile/domain"
	"github.com/vendora/vendora/internal/ratelimit"
	transactiondomain "github.com/vendora/vendora/internal/transaction/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	db      *gorm.DB
	authsvc authdomain.Service

	sessions *session.Manager
	authzSvc authorization.Service

	profileSvc      profiledomain.Service
	organizationSvc organizationdomain.Service
	machineSvc      machinedomain.Service
	productSvc      productdomain.Service
	coinSvc         coindomain.Service
	transactionSvc  transactiondomain.Service
	paymentSvc      paymentdomain.Service
	invoiceSvc      invoicedomain.Service
	dashboardSvc    billingdomain.DashboardService

	obsMetrics *obsmetrics.Metrics
	limiter    *ratelimit.StorefrontLimiter
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	DB      *gorm.DB
	Authsvc authdomain.Service

	Sessions *session.Manager
	AuthzSvc authorization.Service

	ProfileSvc      profiledomain.Service
	OrganizationSvc organizationdomain.Service
	MachineSvc      machinedomain.Service
	ProductSvc      productdomain.Service
	CoinSvc         coindomain.Service
	TransactionSvc  transactiondomain.Service
	PaymentSvc      paymentdomain.Service
	InvoiceSvc      invoicedomain.Service
	DashboardSvc    billingdomain.DashboardService

	ObsMetrics *obsmetrics.Metrics           `optional:"true"`
	Limiter    *ratelimit.StorefrontLimiter  `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		authzSvc:        p.AuthzSvc,
		profileSvc:      p.ProfileSvc,
		organizationSvc: p.OrganizationSvc,
		machineSvc:      p.MachineSvc,
		productSvc:      p.ProductSvc,
		coinSvc:         p.CoinSvc,
		transactionSvc:  p.TransactionSvc,
		paymentSvc:      p.PaymentSvc,
		invoiceSvc:      p.InvoiceSvc,
		dashboardSvc:    p.DashboardSvc,
		obsMetrics:      p.ObsMetrics,
		limiter:         p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerDeviceRoutes()
	svc.registerStorefrontRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	profiles := api.Group("/profiles")
	profiles.GET("", s.RequireAccess(authorization.ObjectProfile, authorization.ActionView), s.ListProfiles)
	profiles.POST("", s.RequireAccess(authorization.ObjectProfile, authorization.ActionCreate), s.CreateProfile)
	profiles.GET("/:id", s.RequireAccess(authorization.ObjectProfile, authorization.ActionView), s.GetProfile)
	profiles.PATCH("/:id", s.RequireAccess(authorization.ObjectProfile, authorization.ActionUpdate), s.UpdateProfile)

	orgs := api.Group("/organizations")
	orgs.GET("", s.RequireAccess(authorization.ObjectOrganization, authorization.ActionView), s.ListOrganizations)
	orgs.POST("", s.RequireAccess(authorization.ObjectOrganization, authorization.ActionCreate), s.CreateOrganization)
	orgs.GET("/:id", s.RequireAccess(authorization.ObjectOrganization, authorization.ActionView), s.GetOrganization)
	orgs.PATCH("/:id", s.RequireAccess(authorization.ObjectOrganization, authorization.ActionUpdate), s.UpdateOrganization)
	orgs.DELETE("/:id", s.RequireAccess(authorization.ObjectOrganization, authorization.ActionDelete), s.DeleteOrganization)

	machines := api.Group("/machines")
	machines.GET("", s.RequireAccess(authorization.ObjectMachine, authorization.ActionView), s.ListMachines)
	machines.POST("", s.RequireAccess(authorization.ObjectMachine, authorization.ActionCreate), s.CreateMachine)
	machines.GET("/:id", s.RequireAccess(authorization.ObjectMachine, authorization.ActionView), s.GetMachine)
	machines.PATCH("/:id", s.RequireAccess(authorization.ObjectMachine, authorization.ActionUpdate), s.UpdateMachine)
	machines.DELETE("/:id", s.RequireAccess(authorization.ObjectMachine, authorization.ActionDelete), s.DeleteMachine)

	products := api.Group("/products")
	products.GET("", s.RequireAccess(authorization.ObjectProduct, authorization.ActionView), s.ListProducts)
	products.POST("", s.RequireAccess(authorization.ObjectProduct, authorization.ActionCreate), s.CreateProduct)
	products.GET("/:id", s.RequireAccess(authorization.ObjectProduct, authorization.ActionView), s.GetProduct)
	products.PATCH("/:id", s.RequireAccess(authorization.ObjectProduct, authorization.ActionUpdate), s.UpdateProduct)
	products.DELETE("/:id", s.RequireAccess(authorization.ObjectProduct, authorization.ActionDelete), s.DeleteProduct)

	invoices := api.Group("/invoices")
	invoices.GET("", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.ListInvoices)
	invoices.POST("", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionCreate), s.CreateInvoice)
	invoices.POST("/generate", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionCreate), s.BulkGenerateInvoices)
	invoices.GET("/:id", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.GetInvoice)
	invoices.POST("/:id/payments", s.RequireAccess(authorization.ObjectPayment, authorization.ActionRecord), s.RecordInvoicePayment)
	invoices.GET("/:id/payments", s.RequireAccess(authorization.ObjectPayment, authorization.ActionView), s.ListInvoicePayments)
	invoices.POST("/:id/send", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionSend), s.SendInvoiceEmail)
	invoices.POST("/:id/cancel", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionUpdate), s.CancelInvoice)
	invoices.DELETE("/:id", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionDelete), s.DeleteInvoice)
	invoices.POST("/:id/pay/order", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.CreateInvoiceOnlineOrder)
	invoices.POST("/pay/verify", s.RequireAccess(authorization.ObjectInvoice, authorization.ActionView), s.VerifyInvoiceOnlinePayment)

	api.GET("/dashboard/overview", s.RequireAccess(authorization.ObjectDashboard, authorization.ActionView), s.DashboardOverview)
}

// Device endpoints authenticate with the shared machine secret rather
// than a session.
func (s *Server) registerDeviceRoutes() {
	device := s.engine.Group("/device/v1", s.MachineSecretRequired())

	device.POST("/checkin", s.MachineCheckIn)
	device.POST("/coin-payments", s.RecordCoinPayment)
}

// Storefront endpoints are public. A shopper at the machine scans a QR
// code and lands here without an account.
func (s *Server) registerStorefrontRoutes() {
	store := s.engine.Group("/store/v1")

	store.GET("/products", s.ListStorefrontProducts)
	store.POST("/checkout", s.CheckoutRateLimited(), s.StorefrontCheckout)
	store.POST("/checkout/verify", s.VerifyStorefrontPayment)
}
