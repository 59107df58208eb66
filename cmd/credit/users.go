package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/spf13/cobra"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Register users and check logins",
	}

	register := &cobra.Command{
		Use:   "register USERNAME PASSWORD",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(2),
		RunE:  runUsersRegister,
	}
	register.Flags().String("mobile", "", "mobile number for login codes")

	cmd.AddCommand(
		register,
		&cobra.Command{
			Use:   "login USERNAME PASSWORD",
			Short: "Log in, asking for a one-time code when enabled",
			Args:  cobra.ExactArgs(2),
			RunE:  runUsersLogin,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered users",
			Args:  cobra.NoArgs,
			RunE:  runUsersList,
		},
	)
	return cmd
}

func runUsersRegister(cmd *cobra.Command, args []string) error {
	mobile, _ := cmd.Flags().GetString("mobile")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := a.store.Register(cmd.Context(), args[0], args[1], mobile)
	if errors.Is(err, common.ErrPasswordTooLong) {
		return common.NewUserError("Password is too long", err)
	}
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	if !ok {
		return common.NewUserError(fmt.Sprintf("User %q already exists", args[0]), common.ErrDuplicateEntry)
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Registered "+args[0]))
	return nil
}

func runUsersLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	username, password := args[0], args[1]

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if !a.settings.OTPEnabled {
		if !a.store.Login(ctx, username, password) {
			return common.NewUserError("Invalid username or password", common.ErrInvalidCredentials)
		}
		writeLine(out, cli.FormatSuccess("Logged in as "+username))
		return nil
	}

	challenge, err := a.store.BeginOTPLogin(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return common.NewUserError("Invalid username or password", err)
		}
		return err
	}
	writeLine(out, cli.FormatInfo(fmt.Sprintf("A login code was sent. It expires at %s.", challenge.ExpiresAt.Local().Format("15:04"))))

	reader := cli.NewNonBlockingReader(cmd.InOrStdin())
	for {
		_, _ = fmt.Fprint(out, cli.FormatPrompt("Code"))
		code, err := reader.ReadLine(ctx)
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}

		err = a.store.VerifyOTP(username, code)
		switch {
		case err == nil:
			writeLine(out, cli.FormatSuccess("Logged in as "+username))
			return nil
		case errors.Is(err, auth.ErrCodeMismatch):
			writeLine(out, cli.FormatError("Incorrect code, try again"))
		default:
			return common.NewUserError("Login failed", err)
		}
	}
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	users := a.registry.Users()
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Username, u.Mobile})
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle("Users"))
	writeLine(out, cli.RenderTable([]string{"Username", "Mobile"}, rows))
	return nil
}
