// Package storage provides the SQLite persistence layer for the credit book.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/creditbook/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidSnapshot = errors.New("invalid ledger snapshot")
	ErrDuplicateID     = errors.New("duplicate record id")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshot rejects snapshots the ledger tables cannot hold.
func validateSnapshot(snap model.Snapshot) error {
	seen := make(map[string]struct{})
	check := func(collection, id string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s record without id", ErrInvalidSnapshot, collection)
		}
		key := collection + "/" + id
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s %s", ErrDuplicateID, collection, id)
		}
		seen[key] = struct{}{}
		return nil
	}

	for _, c := range snap.Customers {
		if err := check("customer", c.ID); err != nil {
			return err
		}
	}
	for _, s := range snap.Suppliers {
		if err := check("supplier", s.ID); err != nil {
			return err
		}
	}
	for _, inv := range snap.Investments {
		if err := check("investment", inv.ID); err != nil {
			return err
		}
		if _, err := model.ParseInvestmentType(string(inv.Type)); err != nil {
			return fmt.Errorf("%w: investment %s: %v", ErrInvalidSnapshot, inv.ID, err)
		}
	}
	for _, c := range snap.Checks {
		if err := check("check", c.ID); err != nil {
			return err
		}
		if _, err := model.ParseCheckType(string(c.Type)); err != nil {
			return fmt.Errorf("%w: check %s: %v", ErrInvalidSnapshot, c.ID, err)
		}
	}
	return nil
}
