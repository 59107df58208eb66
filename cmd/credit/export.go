package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/config"
	"github.com/Veraticus/creditbook/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to Google Sheets",
		Long: `Write customers, suppliers, investments, checks and a summary to a
Google Sheets spreadsheet, one tab each. Existing tab contents are replaced.

Authenticate first with a service account (sheets.service_account_path) or
with 'credit export auth' for a personal Google account.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.AddCommand(exportAuthCmd())

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured; see 'credit export auth'", err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	snap := a.store.Snapshot()
	if err := writer.Write(ctx, snap); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported ledger version %d to %q", snap.Version, sheetsConfig.SpreadsheetName)))
	return nil
}

func exportAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access with your Google account",
		Long: `Run the OAuth2 flow in your browser and store the refresh token in the
config file as sheets.refresh_token.`,
		Args: cobra.NoArgs,
		RunE: runExportAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 client id (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 client secret (overrides config)")
	cmd.Flags().String("listen", "localhost:8089", "address for the local callback server")

	return cmd
}

func runExportAuth(cmd *cobra.Command, _ []string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return common.NewUserError("Set sheets.client_id and sheets.client_secret, or pass --client-id and --client-secret", common.ErrMissingConfig)
	}

	listen, _ := cmd.Flags().GetString("listen")
	out := cmd.OutOrStdout()

	token, err := sheets.Authorize(cmd.Context(), clientID, clientSecret, listen, func(url string) {
		writeLine(out, cli.FormatInfo("Open this URL in your browser to grant access:"))
		writeLine(out, url)
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.refresh_token", token.RefreshToken)
	if err := viper.WriteConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		writeLine(out, cli.FormatWarning("Could not save the refresh token. Add this to your config.yaml:"))
		writeLine(out, fmt.Sprintf("sheets:\n  refresh_token: %q", token.RefreshToken))
		return nil
	}

	writeLine(out, cli.FormatSuccess("Google Sheets is authorized. Run 'credit export' to write the ledger."))
	return nil
}
