package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ginjaninja78/receipts/internal/record"
)

// DefaultNumber is suggested when no counter has been stored yet
const DefaultNumber = 1

// NextNumber returns the receipt number to suggest next, zero-padded. It
// never changes the stored counter. A missing or unparsable counter yields
// "00001"
func (s *Store) NextNumber() (string, error) {
	n, err := s.readCounter()
	if err != nil {
		return record.FormatNumber(DefaultNumber), err
	}
	return record.FormatNumber(n), nil
}

// readCounter returns the stored counter. Missing and unparsable files give
// DefaultNumber without error; other read failures are returned
func (s *Store) readCounter() (int, error) {
	data, err := os.ReadFile(s.CounterPath())
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultNumber, nil
	}
	if err != nil {
		return DefaultNumber, fmt.Errorf("failed to read counter: %w", err)
	}

	n, ok := record.ParseNumber(strings.TrimSpace(string(data)))
	if !ok {
		s.logger.Warn("counter unparsable, using default")
		return DefaultNumber, nil
	}
	return n, nil
}

// advance computes the counter stored after committing number
func advance(current int, number string) int {
	next := current + 1
	if n, ok := record.ParseNumber(number); ok && n+1 > next {
		next = n + 1
	}
	return next
}
