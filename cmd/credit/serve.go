package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/api"
	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/certs"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/receipt"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long: `Start the JSON API and the live update websocket.

Clients log in at POST /api/login and send the returned token as a bearer
token. Set api.jwt_secret (or CREDIT_API_JWT_SECRET) before serving.

With --tls the server uses a self-signed certificate kept in api.cert_dir,
valid for localhost and every name in api.tls_hosts.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from api.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	tokens, err := auth.NewTokens(a.settings.JWTSecret, a.settings.TokenTTL)
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return common.NewUserError("Set api.jwt_secret before serving the API", err)
		}
		return err
	}

	addr := a.settings.APIAddr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	server := api.NewServer(a.store, tokens, receipt.NewRenderer(a.settings.Currency),
		api.Config{OTPEnabled: a.settings.OTPEnabled}, slog.Default())

	useTLS := a.settings.TLS
	if cmd.Flags().Changed("tls") {
		useTLS, _ = cmd.Flags().GetBool("tls")
	}
	if !useTLS {
		return server.Run(cmd.Context(), addr)
	}

	manager := certs.NewManager(a.settings.CertDir, a.settings.TLSHosts...)
	cert, err := manager.Certificate()
	if err != nil {
		return fmt.Errorf("failed to prepare TLS certificate: %w", err)
	}
	certFile, _ := manager.Files()
	slog.Info("Serving HTTPS; clients must trust the certificate", "certificate", certFile)
	return server.RunTLS(cmd.Context(), addr, cert)
}
