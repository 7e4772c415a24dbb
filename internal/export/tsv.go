package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteTSV writes rows as tab-separated lines without a header. Fields are
// quoted only when they contain a tab, a quote or a line break.
func WriteTSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	for i, r := range rows {
		if err := writer.Write(r.Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}
