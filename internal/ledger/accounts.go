package ledger

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
)

// AddCustomer creates a customer with zero credit.
func (s *Store) AddCustomer(name, mobile string) (model.Customer, error) {
	if !model.ValidMobile(mobile) {
		return model.Customer{}, fmt.Errorf("%w: %q", common.ErrInvalidMobile, mobile)
	}

	s.mu.Lock()
	c := model.Customer{ID: s.newID(), Name: name, Mobile: mobile}
	s.customers = append(s.customers, c)
	snap := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("added customer", "id", c.ID, "name", c.Name)
	s.publish(snap)
	return c, nil
}

// AddDebt increases what the customer owes.
func (s *Store) AddDebt(customerID, amount string) Outcome {
	return s.adjustCustomer(customerID, amount, 1)
}

// AddPayment decreases what the customer owes. Credit may go below zero,
// meaning the shop now owes the customer.
func (s *Store) AddPayment(customerID, amount string) Outcome {
	return s.adjustCustomer(customerID, amount, -1)
}

func (s *Store) adjustCustomer(id, amount string, sign float64) Outcome {
	v, ok := ParsePositiveAmount(amount)
	if !ok {
		return InvalidInput
	}

	s.mu.Lock()
	i := s.customerIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return NotFound
	}
	s.customers[i].Credit += sign * v
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return OK
}

// AddSupplier creates a supplier. initialCredit is the opening balance owed
// to the supplier; empty or unparsable input means zero.
func (s *Store) AddSupplier(name, mobile, initialCredit string) (model.Supplier, error) {
	if !model.ValidMobile(mobile) {
		return model.Supplier{}, fmt.Errorf("%w: %q", common.ErrInvalidMobile, mobile)
	}

	credit, ok := ParseAmount(initialCredit)
	if !ok {
		credit = 0
	}

	s.mu.Lock()
	sup := model.Supplier{ID: s.newID(), Name: name, Mobile: mobile, Credit: credit}
	s.suppliers = append(s.suppliers, sup)
	snap := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("added supplier", "id", sup.ID, "name", sup.Name, "credit", sup.Credit)
	s.publish(snap)
	return sup, nil
}

// AddSupplierPayment decreases what the shop owes the supplier.
func (s *Store) AddSupplierPayment(supplierID, amount string) Outcome {
	v, ok := ParsePositiveAmount(amount)
	if !ok {
		return InvalidInput
	}

	s.mu.Lock()
	i := s.supplierIndex(supplierID)
	if i < 0 {
		s.mu.Unlock()
		return NotFound
	}
	s.suppliers[i].Credit -= v
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return OK
}

// Customer returns the customer with the given id.
func (s *Store) Customer(id string) (model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.customerIndex(id); i >= 0 {
		return s.customers[i], true
	}
	return model.Customer{}, false
}

// Customers returns all customers in creation order.
func (s *Store) Customers() []model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Customer{}, s.customers...)
}

// Supplier returns the supplier with the given id.
func (s *Store) Supplier(id string) (model.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.supplierIndex(id); i >= 0 {
		return s.suppliers[i], true
	}
	return model.Supplier{}, false
}

// Suppliers returns all suppliers in creation order.
func (s *Store) Suppliers() []model.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Supplier{}, s.suppliers...)
}

func (s *Store) customerIndex(id string) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) supplierIndex(id string) int {
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			return i
		}
	}
	return -1
}
