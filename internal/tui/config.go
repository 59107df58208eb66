package tui

import (
	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Currency string
	Width    int
	Height   int
	// Buffer is the subscription buffer; a slow frame drops older snapshots.
	Buffer int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Currency: cli.DefaultCurrency,
		Width:    100,
		Height:   30,
		Buffer:   8,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithCurrency sets the currency label shown before amounts.
func WithCurrency(currency string) Option {
	return func(c *Config) {
		if currency != "" {
			c.Currency = currency
		}
	}
}

// WithSize sets the initial size used before the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
