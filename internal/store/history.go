package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/record"
)

// AllCustomers disables the customer filter
const AllCustomers = "All"

// History maps a zero-padded receipt number to a one-entry mapping from
// customer name to the receipt used
type History map[string]map[string]*record.Receipt

// Entries returns the entries of h sorted by key
func (h History) Entries() []record.Entry {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []record.Entry
	for _, key := range keys {
		customers := make([]string, 0, len(h[key]))
		for name := range h[key] {
			customers = append(customers, name)
		}
		sort.Strings(customers)
		for _, name := range customers {
			rec := h[key][name]
			if rec == nil {
				rec = &record.Receipt{}
			}
			entries = append(entries, record.Entry{Key: key, Customer: name, Receipt: rec})
		}
	}
	return entries
}

// Customers returns the distinct customer names in h, sorted
func (h History) Customers() []string {
	seen := make(map[string]bool)
	for _, byCustomer := range h {
		for name := range byCustomer {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadHistory reads the history file. A missing file yields an empty
// history with StatusMissing. A corrupt file yields an empty history,
// StatusCorrupt and a *StoreReadError
func (s *Store) LoadHistory() (History, LoadStatus, error) {
	h, _, status, err := s.loadHistory()
	return h, status, err
}

func (s *Store) loadHistory() (History, revision, LoadStatus, error) {
	path := s.HistoryPath()

	data, rev, err := readRevision(path)
	if err != nil {
		return History{}, rev, StatusCorrupt, &StoreReadError{Path: path, Cause: err}
	}
	if !rev.exists {
		return History{}, rev, StatusMissing, nil
	}

	h, err := parseHistory(data)
	if err != nil {
		return History{}, rev, StatusCorrupt, &StoreReadError{Path: path, Cause: err}
	}
	return h, rev, StatusLoaded, nil
}

func parseHistory(data []byte) (History, error) {
	h := History{}
	if isBlank(data) {
		return h, nil
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = History{}
	}
	return h, nil
}

// Entries loads the history and returns its entries sorted by key. A
// corrupt history is logged and treated as empty
func (s *Store) Entries() ([]record.Entry, error) {
	h, status, err := s.LoadHistory()
	if status == StatusCorrupt {
		s.logger.Warn("history unreadable, treating as empty", zap.Error(err))
		return nil, nil
	}
	return h.Entries(), err
}

// Lookup returns the entry stored under key. Numeric keys are zero-padded
// first, so "7" finds "00007"
func (s *Store) Lookup(key string) (*record.Entry, error) {
	h, status, err := s.LoadHistory()
	if status == StatusCorrupt {
		return nil, err
	}

	padded := record.PadNumber(strings.TrimSpace(key))
	byCustomer, ok := h[padded]
	if !ok || len(byCustomer) == 0 {
		return nil, fmt.Errorf("%w: receipt %s", ErrNotFound, padded)
	}

	entries := History{padded: byCustomer}.Entries()
	return &entries[0], nil
}

// Filter selects history entries
type Filter struct {
	// Customer keeps entries for one customer; "" or AllCustomers keeps all
	Customer string
	// Date is either a month such as "7/2025" or "07-25", matched against
	// parsed entry dates, or any other text matched as a substring of Date
	Date string
}

// Apply returns the entries that pass f, preserving order
func (f Filter) Apply(entries []record.Entry) []record.Entry {
	customer := strings.TrimSpace(f.Customer)
	date := strings.TrimSpace(f.Date)
	month, year, byMonth := record.ParseMonthYear(date)

	var out []record.Entry
	for _, e := range entries {
		if customer != "" && customer != AllCustomers && e.Customer != customer {
			continue
		}
		if date != "" {
			if byMonth {
				if !record.SameMonth(e.Receipt.Date, month, year) {
					continue
				}
			} else if !strings.Contains(e.Receipt.Date, date) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
