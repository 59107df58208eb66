// Package api serves the ledger over HTTP as JSON, with a websocket feed of
// snapshots for live clients.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/receipt"
	"github.com/gin-gonic/gin"
)

// Config controls optional API behavior.
type Config struct {
	// OTPEnabled makes login answer with a code challenge instead of a token.
	OTPEnabled bool
}

// Server holds the HTTP handlers for one ledger.
type Server struct {
	now      func() time.Time
	store    *ledger.Store
	tokens   *auth.Tokens
	receipts *receipt.Renderer
	logger   *slog.Logger
	cfg      Config
}

// NewServer creates the API over store.
func NewServer(store *ledger.Store, tokens *auth.Tokens, receipts *receipt.Renderer, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if receipts == nil {
		receipts = receipt.NewRenderer("")
	}
	return &Server{
		now:      time.Now,
		store:    store,
		tokens:   tokens,
		receipts: receipts,
		logger:   logger,
		cfg:      cfg,
	}
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), LoggingMiddleware(s.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", s.Register)
		authGroup.POST("/login", s.Login)
		authGroup.POST("/otp/verify", s.VerifyOTP)
		authGroup.POST("/logout", s.AuthMiddleware(), s.Logout)
	}

	protected := v1.Group("", s.AuthMiddleware())
	{
		protected.GET("/snapshot", s.GetSnapshot)
		protected.GET("/totals", s.GetTotals)

		protected.GET("/customers", s.ListCustomers)
		protected.POST("/customers", s.CreateCustomer)
		protected.POST("/customers/:id/debt", s.AddDebt)
		protected.POST("/customers/:id/payments", s.AddPayment)

		protected.GET("/suppliers", s.ListSuppliers)
		protected.POST("/suppliers", s.CreateSupplier)
		protected.POST("/suppliers/:id/payments", s.AddSupplierPayment)

		protected.GET("/investments", s.ListInvestments)
		protected.POST("/investments", s.CreateInvestment)
		protected.POST("/investments/:id/payments", s.AddInvestmentPayment)

		protected.GET("/checks", s.ListChecks)
		protected.POST("/checks", s.CreateCheck)
		protected.POST("/checks/:id/pass", s.PassCheck)
		protected.POST("/checks/:id/bounce", s.BounceCheck)

		protected.GET("/profile", s.GetProfile)
		protected.PUT("/profile", s.UpdateProfile)

		protected.GET("/receipts", s.GetReceipt)
		protected.GET("/ws", s.Feed)
	}

	return router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := s.httpServer(addr)
	return s.serve(ctx, srv, srv.ListenAndServe)
}

// RunTLS is Run over HTTPS with cert.
func (s *Server) RunTLS(ctx context.Context, addr string, cert tls.Certificate) error {
	srv := s.httpServer(addr)
	srv.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return s.serve(ctx, srv, func() error { return srv.ListenAndServeTLS("", "") })
}

func (s *Server) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) serve(ctx context.Context, srv *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", srv.Addr, "tls", srv.TLSConfig != nil)
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}
