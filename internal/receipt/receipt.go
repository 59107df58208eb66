// Package receipt renders payment receipts for printing or display.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/bytesparadise/libasciidoc"
	"github.com/bytesparadise/libasciidoc/pkg/configuration"
)

// DefaultCurrency prefixes receipt amounts when none is configured.
const DefaultCurrency = "LKR"

// DateLayout is how receipt dates are printed.
const DateLayout = "2006-01-02 15:04"

// Receipt is one payment acknowledgement.
type Receipt struct {
	Date    time.Time
	Profile model.AdminProfile
	Payee   string
	Amount  float64
}

// Line is a label and value printed on the receipt.
type Line struct {
	Label string
	Value string
}

// Header returns the shop details, with placeholders for blank fields.
func (r Receipt) Header() (title string, lines []Line) {
	p := r.Profile
	return orDefault(p.ShopName, "Shop Name"), []Line{
		{Label: "Admin", Value: orDefault(p.AdminName, "Admin")},
		{Label: "Contact", Value: orDefault(p.ContactNumber, "N/A")},
		{Label: "Address", Value: orDefault(p.Address, "N/A")},
	}
}

// Renderer formats receipts.
type Renderer struct {
	Currency string
	// Standalone wraps HTML output in a complete page.
	Standalone bool
}

// NewRenderer creates a renderer using currency, or DefaultCurrency when empty.
func NewRenderer(currency string) *Renderer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Renderer{Currency: currency}
}

// AmountLine formats the paid amount.
func (rn *Renderer) AmountLine(amount float64) string {
	return fmt.Sprintf("Amount Paid: %s %.2f", rn.Currency, amount)
}

// Text renders a plain-text receipt.
func (rn *Renderer) Text(r Receipt) string {
	var b strings.Builder
	title, lines := r.Header()
	b.WriteString(title + "\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "%s: %s\n", l.Label, l.Value)
	}
	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "Date: %s\n", r.Date.Format(DateLayout))
	fmt.Fprintf(&b, "Payee: %s\n", r.Payee)
	b.WriteString(rn.AmountLine(r.Amount) + "\n")
	b.WriteString("Thank you!\n")
	return b.String()
}

// AsciiDoc renders the receipt as an AsciiDoc document.
func (rn *Renderer) AsciiDoc(r Receipt) string {
	var b strings.Builder
	title, lines := r.Header()

	if r.Profile.ShopLogo != "" && !strings.HasPrefix(r.Profile.ShopLogo, "data:") {
		fmt.Fprintf(&b, "image::%s[Logo,80,80]\n\n", r.Profile.ShopLogo)
	}
	fmt.Fprintf(&b, "*%s*\n\n", inline(title))
	for i, l := range lines {
		fmt.Fprintf(&b, "%s: %s", l.Label, inline(l.Value))
		if i < len(lines)-1 {
			b.WriteString(" +")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n'''\n\n")
	fmt.Fprintf(&b, "*Date:* %s +\n", r.Date.Format(DateLayout))
	fmt.Fprintf(&b, "*Payee:* %s\n\n", inline(r.Payee))
	fmt.Fprintf(&b, "*%s*\n\n", rn.AmountLine(r.Amount))
	b.WriteString("Thank you!\n")
	return b.String()
}

// HTML converts the AsciiDoc receipt to HTML.
func (rn *Renderer) HTML(r Receipt) (string, error) {
	output := bytes.NewBuffer(nil)
	config := configuration.NewConfiguration(
		configuration.WithHeaderFooter(rn.Standalone),
		configuration.WithAttribute("nofooter", ""),
		configuration.WithAttribute("doctitle", "Receipt"),
	)

	if _, err := libasciidoc.Convert(strings.NewReader(rn.AsciiDoc(r)), output, config); err != nil {
		return "", fmt.Errorf("failed to convert receipt: %w", err)
	}
	return output.String(), nil
}

// inline wraps user text in a passthrough so names never turn into markup.
func inline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "+", "")
	if s == "" {
		return s
	}
	return "+" + s + "+"
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
