package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/cache"
	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/config"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/notify"
	"github.com/Veraticus/creditbook/internal/service"
	"github.com/Veraticus/creditbook/internal/storage"
	"github.com/spf13/viper"
)

// shortIDLen is how much of an id the listings show.
const shortIDLen = 8

// app is everything a command needs, opened from the configuration.
type app struct {
	settings config.Settings
	db       *storage.SQLiteStorage
	closers  []io.Closer
	registry *auth.Registry
	store    *ledger.Store
}

// openApp loads settings, opens storage and builds the ledger. With
// ledger.persist the saved ledger is loaded and every change is saved.
func openApp(ctx context.Context) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	db, err := initStorage(ctx, settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a := &app{settings: settings, db: db, closers: []io.Closer{db}}

	kv, err := a.registryStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.registry = auth.NewRegistry(kv, settings.BcryptCost)
	if err := a.registry.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	sender, err := codeSender(settings)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = ledger.New(a.registry,
		ledger.WithChallenger(auth.NewChallenger(settings.OTPTTL, settings.OTPMaxAttempts)),
		ledger.WithCodeSender(sender),
	)

	if settings.Persist {
		if err := a.store.Load(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		a.store.PersistTo(ctx, db)
	}

	return a, nil
}

// Close releases storage and any Redis connection.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			slog.Error("failed to close resource", "error", err)
		}
	}
}

// registryStore picks where the user registry lives.
func (a *app) registryStore() (service.KeyValueStore, error) {
	if a.settings.RegistryBackend != config.BackendRedis {
		return a.db, nil
	}

	rs, err := cache.NewRedisStore(a.settings.RedisAddr, a.settings.RedisPassword, a.settings.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.closers = append(a.closers, rs)
	return rs, nil
}

// initStorage opens the database and brings its schema up to date.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func codeSender(settings config.Settings) (service.CodeSender, error) {
	if settings.OTPChannel == config.ChannelTelegram {
		sender, err := notify.NewTelegramSender(settings.TelegramToken, settings.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to set up telegram: %w", err)
		}
		return sender, nil
	}
	return notify.NewLogSender(nil), nil
}

// saved fails when the last change did not reach the database, so commands
// never report success for a change that is lost on exit.
func (a *app) saved() error {
	if err := a.store.PersistErr(); err != nil {
		return common.NewUserError("Change could not be saved to the database", err)
	}
	return nil
}

// outcomeError turns a rejected amend into a message for the user.
func outcomeError(o ledger.Outcome, what string) error {
	switch o {
	case ledger.OK:
		return nil
	case ledger.NotFound:
		return common.NewUserError(fmt.Sprintf("No %s with that id", what), common.ErrNotFound)
	default:
		return common.NewUserError("Nothing changed: amount must be a positive number", common.ErrInvalidAmount)
	}
}

// resolveID accepts a full id or an unambiguous prefix of one.
func resolveID(ref string, ids []string, what string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", common.NewUserError(fmt.Sprintf("Missing %s id", what), nil)
	}

	var found []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			found = append(found, id)
		}
	}

	switch len(found) {
	case 0:
		return "", common.NewUserError(fmt.Sprintf("No %s with id %q", what, ref), common.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", common.NewUserError(fmt.Sprintf("%q matches %d %ss; use more of the id", ref, len(found), what), nil)
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func (a *app) customerID(ref string) (string, error) {
	customers := a.store.Customers()
	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	return resolveID(ref, ids, "customer")
}

func (a *app) supplierID(ref string) (string, error) {
	suppliers := a.store.Suppliers()
	ids := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		ids = append(ids, s.ID)
	}
	return resolveID(ref, ids, "supplier")
}

func (a *app) investmentID(ref string) (string, error) {
	investments := a.store.Investments("")
	ids := make([]string, 0, len(investments))
	for _, inv := range investments {
		ids = append(ids, inv.ID)
	}
	return resolveID(ref, ids, "investment")
}

func (a *app) checkID(ref string) (string, error) {
	checks := a.store.Checks("")
	ids := make([]string, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID)
	}
	return resolveID(ref, ids, "check")
}

// paymentTarget resolves "customer", "supplier" or "investment" plus an id
// reference into a ledger target.
func (a *app) paymentTarget(kind, ref string) (ledger.PaymentTarget, error) {
	k, err := ledger.ParseTargetKind(kind)
	if err != nil {
		return ledger.PaymentTarget{}, common.NewUserError("Target must be customer, supplier or investment", err)
	}

	var id string
	switch k {
	case ledger.TargetCustomer:
		id, err = a.customerID(ref)
	case ledger.TargetSupplier:
		id, err = a.supplierID(ref)
	case ledger.TargetInvestment:
		id, err = a.investmentID(ref)
	}
	if err != nil {
		return ledger.PaymentTarget{}, err
	}
	return ledger.PaymentTarget{ID: id, Kind: k}, nil
}

func (a *app) money(amount float64) string {
	return cli.FormatMoney(a.settings.Currency, amount)
}

// writeLine prints user-facing output; write errors on a terminal are not
// actionable.
func writeLine(w io.Writer, line string) {
	_, _ = fmt.Fprintln(w, line)
}
