package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
)

// SaveLedger replaces every ledger row with the contents of snap in one
// transaction. Collection order is kept through the position column.
// The session and totals are not stored.
func (s *SQLiteStorage) SaveLedger(ctx context.Context, snap model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = saveLedgerTx(ctx, tx, snap); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
	return nil
}

func saveLedgerTx(ctx context.Context, tx *sql.Tx, snap model.Snapshot) error {
	for _, table := range []string{"customers", "suppliers", "investments", "checks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, c := range snap.Customers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers (id, position, name, mobile, credit)
			VALUES (?, ?, ?, ?, ?)
		`, c.ID, i, c.Name, c.Mobile, c.Credit); err != nil {
			return fmt.Errorf("failed to save customer %s: %w", c.ID, err)
		}
	}

	for i, sup := range snap.Suppliers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO suppliers (id, position, name, mobile, credit)
			VALUES (?, ?, ?, ?, ?)
		`, sup.ID, i, sup.Name, sup.Mobile, sup.Credit); err != nil {
			return fmt.Errorf("failed to save supplier %s: %w", sup.ID, err)
		}
	}

	for i, inv := range snap.Investments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO investments (id, position, name, mobile, type, amount, date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, inv.ID, i, inv.Name, inv.Mobile, string(inv.Type), inv.Amount, inv.Date.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to save investment %s: %w", inv.ID, err)
		}
	}

	for i, c := range snap.Checks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO checks (id, position, number, bank, amount, name, contact, type, date, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, i, c.Number, c.Bank, c.Amount, c.Name, c.Contact, string(c.Type), c.Date, string(c.Status)); err != nil {
			return fmt.Errorf("failed to save check %s: %w", c.ID, err)
		}
	}

	p := snap.Profile
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admin_profile (id, shop_name, admin_name, contact_number, address, shop_logo, ledger_version, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			shop_name = excluded.shop_name,
			admin_name = excluded.admin_name,
			contact_number = excluded.contact_number,
			address = excluded.address,
			shop_logo = excluded.shop_logo,
			ledger_version = excluded.ledger_version,
			updated_at = CURRENT_TIMESTAMP
	`, p.ShopName, p.AdminName, p.ContactNumber, p.Address, p.ShopLogo, int64(snap.Version)); err != nil {
		return fmt.Errorf("failed to save admin profile: %w", err)
	}

	return nil
}

// LoadLedger reads the saved ledger. An empty database yields an empty
// snapshot at version 0.
func (s *SQLiteStorage) LoadLedger(ctx context.Context) (model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		Customers:   []model.Customer{},
		Suppliers:   []model.Supplier{},
		Investments: []model.Investment{},
		Checks:      []model.Check{},
	}

	if err := s.loadCustomers(ctx, &snap); err != nil {
		return model.Snapshot{}, err
	}
	if err := s.loadSuppliers(ctx, &snap); err != nil {
		return model.Snapshot{}, err
	}
	if err := s.loadInvestments(ctx, &snap); err != nil {
		return model.Snapshot{}, err
	}
	if err := s.loadChecks(ctx, &snap); err != nil {
		return model.Snapshot{}, err
	}

	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT shop_name, admin_name, contact_number, address, shop_logo, ledger_version
		FROM admin_profile WHERE id = 1
	`).Scan(&snap.Profile.ShopName, &snap.Profile.AdminName, &snap.Profile.ContactNumber,
		&snap.Profile.Address, &snap.Profile.ShopLogo, &version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, fmt.Errorf("failed to load admin profile: %w", err)
	}
	snap.Version = uint64(version)

	return snap, nil
}

func (s *SQLiteStorage) loadCustomers(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, mobile, credit FROM customers ORDER BY position`)
	if err != nil {
		return fmt.Errorf("failed to query customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Mobile, &c.Credit); err != nil {
			return fmt.Errorf("failed to scan customer: %w", err)
		}
		snap.Customers = append(snap.Customers, c)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadSuppliers(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, mobile, credit FROM suppliers ORDER BY position`)
	if err != nil {
		return fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sup model.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Mobile, &sup.Credit); err != nil {
			return fmt.Errorf("failed to scan supplier: %w", err)
		}
		snap.Suppliers = append(snap.Suppliers, sup)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadInvestments(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, mobile, type, amount, date
		FROM investments ORDER BY position
	`)
	if err != nil {
		return fmt.Errorf("failed to query investments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			inv  model.Investment
			typ  string
			date string
		)
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Mobile, &typ, &inv.Amount, &date); err != nil {
			return fmt.Errorf("failed to scan investment: %w", err)
		}
		inv.Type = model.InvestmentType(typ)
		inv.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return fmt.Errorf("investment %s has invalid date %q: %w", inv.ID, date, err)
		}
		snap.Investments = append(snap.Investments, inv)
	}
	return rows.Err()
}

func (s *SQLiteStorage) loadChecks(ctx context.Context, snap *model.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, bank, amount, name, contact, type, date, status
		FROM checks ORDER BY position
	`)
	if err != nil {
		return fmt.Errorf("failed to query checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			c      model.Check
			typ    string
			status string
		)
		if err := rows.Scan(&c.ID, &c.Number, &c.Bank, &c.Amount, &c.Name, &c.Contact, &typ, &c.Date, &status); err != nil {
			return fmt.Errorf("failed to scan check: %w", err)
		}
		c.Type = model.CheckType(typ)
		c.Status = model.CheckStatus(status)
		snap.Checks = append(snap.Checks, c)
	}
	return rows.Err()
}
