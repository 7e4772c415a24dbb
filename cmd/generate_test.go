package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"Date=1/7/2025", " payment =300", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Date":    "1/7/2025",
		"payment": "300",
		"note":    "a=b",
		"empty":   "",
	}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestReadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recipeNum": 12, "customer": "Dalya", "discription": "שכר דירה"}`), 0644))

	rec, err := readRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "12", rec.RecipeNum)
	assert.Equal(t, "Dalya", rec.Customer)
	assert.Equal(t, "שכר דירה", rec.Description)

	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0644))
	_, err = readRecord(path)
	assert.Error(t, err)

	_, err = readRecord(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "receipts "+Version+" (built "+BuildDate))
}
