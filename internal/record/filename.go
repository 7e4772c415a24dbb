package record

import (
	"path/filepath"
	"strings"
)

// RecreateSuffix marks artifacts regenerated from history.
const RecreateSuffix = "_recreate"

// DefaultFileName builds "<customer> <number> <mon> <yy>.pdf", leaving out
// parts that are empty.
func DefaultFileName(customer, number, date string) string {
	var parts []string
	for _, p := range []string{strings.TrimSpace(customer), strings.TrimSpace(number), MonthYear(date)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "receipt")
	}
	return sanitizeFileName(strings.Join(parts, " ")) + ".pdf"
}

// DefaultPath places DefaultFileName in r.SaveFolder when it is absolute and
// in fallbackDir otherwise.
func DefaultPath(r *Receipt, customer, number, fallbackDir string) string {
	dir := fallbackDir
	if r.SaveFolder != "" && filepath.IsAbs(r.SaveFolder) {
		dir = r.SaveFolder
	}
	return filepath.Join(dir, DefaultFileName(customer, number, r.Date))
}

// RecreatePath inserts RecreateSuffix before the extension of path.
func RecreatePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + RecreateSuffix + ext
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

func sanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
