package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/pkg/utils"
)

// Customers maps a customer name to its receipt template
type Customers map[string]*record.Receipt

// Names returns the customer names sorted
func (c Customers) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadCustomers reads the customer file with the same status rules as
// LoadHistory
func (s *Store) LoadCustomers() (Customers, LoadStatus, error) {
	c, _, status, err := s.loadCustomers()
	return c, status, err
}

func (s *Store) loadCustomers() (Customers, revision, LoadStatus, error) {
	path := s.CustomersPath()

	data, rev, err := readRevision(path)
	if err != nil {
		return Customers{}, rev, StatusCorrupt, &StoreReadError{Path: path, Cause: err}
	}
	if !rev.exists {
		return Customers{}, rev, StatusMissing, nil
	}

	customers := Customers{}
	if !isBlank(data) {
		if err := json.Unmarshal(data, &customers); err != nil {
			return Customers{}, rev, StatusCorrupt, &StoreReadError{Path: path, Cause: err}
		}
	}
	if customers == nil {
		customers = Customers{}
	}
	return customers, rev, StatusLoaded, nil
}

// ListCustomers returns the sorted customer names. A corrupt file is logged
// and listed as empty
func (s *Store) ListCustomers() ([]string, error) {
	customers, status, err := s.LoadCustomers()
	if status == StatusCorrupt {
		s.logger.Warn("customers unreadable, treating as empty", zap.Error(err))
		return nil, nil
	}
	return customers.Names(), err
}

// GetCustomer returns a copy of the named customer's template
func (s *Store) GetCustomer(name string) (*record.Receipt, error) {
	customers, status, err := s.LoadCustomers()
	if status == StatusCorrupt {
		return nil, err
	}
	rec, ok := customers[name]
	if !ok || rec == nil {
		return nil, fmt.Errorf("%w: customer %q", ErrNotFound, name)
	}
	return rec.Clone(), nil
}

// NewCustomer returns an empty template for name with every sample key
// present and the customer field set
func NewCustomer(name string) *record.Receipt {
	return &record.Receipt{Customer: name}
}

// PutCustomer creates or replaces the named customer
func (s *Store) PutCustomer(ctx context.Context, name string, rec *record.Receipt) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("customer name is required")
	}
	stored := rec.Clone()
	return s.updateCustomers(ctx, func(c Customers) error {
		c[name] = stored
		return nil
	})
}

// DeleteCustomer removes the named customer
func (s *Store) DeleteCustomer(ctx context.Context, name string) error {
	return s.updateCustomers(ctx, func(c Customers) error {
		if _, ok := c[name]; !ok {
			return fmt.Errorf("%w: customer %q", ErrNotFound, name)
		}
		delete(c, name)
		return nil
	})
}

// updateCustomers runs a read-modify-write of the customer file under the
// lock: load, apply fn, back up, write atomically after a revision check.
// A corrupt file is refused so that an edit never silently discards it
func (s *Store) updateCustomers(ctx context.Context, fn func(Customers) error) error {
	path := s.CustomersPath()

	return s.withLock(ctx, path, func() error {
		customers, rev, status, err := s.loadCustomers()
		if status == StatusCorrupt {
			return err
		}
		if err := fn(customers); err != nil {
			return err
		}

		data, err := record.EncodeIndent(customers)
		if err != nil {
			return fmt.Errorf("failed to encode customers: %w", err)
		}

		backup, err := utils.BackupFile(path, s.opts.Now())
		if err != nil {
			return err
		}

		staged, err := utils.WriteStaged(path, data)
		if err != nil {
			return err
		}
		defer os.Remove(staged)

		if err := checkRevision(path, rev); err != nil {
			return fmt.Errorf("customers %s: %w", path, err)
		}
		if err := s.rename(staged, path); err != nil {
			return fmt.Errorf("failed to replace customers: %w", err)
		}

		s.logger.Info("customers saved", zap.Int("count", len(customers)), zap.String("backup", backup))
		s.pruneBackups(path)
		return nil
	})
}

// copyFrom returns a writer function that copies the file at path
func copyFrom(path string) func(io.Writer) error {
	return func(w io.Writer) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	}
}
