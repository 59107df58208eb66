package main

import (
	"os"
	"strings"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/config"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the shop profile printed on receipts",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Update the shop profile; unset flags keep their value",
		Args:  cobra.NoArgs,
		RunE:  runProfileSet,
	}
	set.Flags().String("shop", "", "shop name")
	set.Flags().String("admin", "", "admin name")
	set.Flags().String("contact", "", "contact number")
	set.Flags().String("address", "", "shop address")
	set.Flags().String("logo", "", "logo image path or URL")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the shop profile",
			Args:  cobra.NoArgs,
			RunE:  runProfileShow,
		},
		set,
	)
	return cmd
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.store.AdminProfile()
	writeLine(cmd.OutOrStdout(), cli.RenderBox("Shop Profile", cli.FormatKeyValues([][2]string{
		{"Shop", orNA(p.ShopName)},
		{"Admin", orNA(p.AdminName)},
		{"Contact", orNA(p.ContactNumber)},
		{"Address", orNA(p.Address)},
		{"Logo", orNA(p.ShopLogo)},
	})))
	return nil
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.store.AdminProfile()
	fields := []struct {
		dst  *string
		flag string
	}{
		{&p.ShopName, "shop"},
		{&p.AdminName, "admin"},
		{&p.ContactNumber, "contact"},
		{&p.Address, "address"},
		{&p.ShopLogo, "logo"},
	}
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst, _ = cmd.Flags().GetString(f.flag)
		}
	}

	if cmd.Flags().Changed("logo") && p.ShopLogo != "" && !isURL(p.ShopLogo) {
		p.ShopLogo = config.ExpandPath(p.ShopLogo)
		if _, err := os.Stat(p.ShopLogo); err != nil {
			return common.NewUserError("Logo file not found", err)
		}
	}

	a.store.UpdateAdminProfile(p)
	if err := a.saved(); err != nil {
		return err
	}
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Profile updated"))
	return nil
}

func orNA(s string) string {
	if s == "" {
		return cli.SubtleStyle.Render("N/A")
	}
	return s
}

func isURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
