package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/receipts/internal/coords"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.Black)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestFPDF_DrawsSinglePage(t *testing.T) {
	dir := t.TempDir()
	tmpl := writePNG(t, dir, "template.png")
	sig := writePNG(t, dir, "signature.png")

	c, err := NewFPDF().NewCanvas(PageSize{W: 125, H: 160})
	require.NoError(t, err)

	require.NoError(t, c.DrawTemplate(tmpl))
	require.NoError(t, c.SetFont("Helvetica", 10))
	require.NoError(t, c.DrawRightString(75, 127.5, "00007"))
	require.NoError(t, c.DrawImage(sig, coords.Rect{X: 11, Y: 24, W: 24, H: 6}))
	c.SetTitle("Dalya")
	c.SetCreationDate(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, c.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestFPDF_Deterministic(t *testing.T) {
	render := func() []byte {
		c, err := NewFPDF().NewCanvas(PageSize{W: 125, H: 160})
		require.NoError(t, err)
		require.NoError(t, c.SetFont("Helvetica", 10))
		require.NoError(t, c.DrawRightString(24, 40, "300"))
		c.SetTitle("Dalya")
		c.SetCreationDate(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
		var buf bytes.Buffer
		require.NoError(t, c.Output(&buf))
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
}

func TestFPDF_MissingImage(t *testing.T) {
	c, err := NewFPDF().NewCanvas(PageSize{W: 125, H: 160})
	require.NoError(t, err)
	err = c.DrawTemplate(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}

func TestFPDF_InvalidPageSize(t *testing.T) {
	_, err := NewFPDF().NewCanvas(PageSize{W: 0, H: 160})
	assert.Error(t, err)
}

func TestRecorder_KeepsCallsInOrder(t *testing.T) {
	rec := NewRecorder()
	assert.Nil(t, rec.Last())

	c, err := rec.NewCanvas(PageSize{W: 125, H: 160})
	require.NoError(t, err)
	require.NoError(t, c.RegisterFont("Alef", "fonts/Alef-Regular.ttf"))
	require.NoError(t, c.DrawTemplate("template.svg"))
	require.NoError(t, c.SetFont("Helvetica", 10))
	require.NoError(t, c.DrawRightString(75, 127.5, "00007"))
	require.NoError(t, c.SetFont("Alef", 12))
	require.NoError(t, c.DrawRightString(112, 102.5, "שלום"))
	c.SetTitle("Dalya")

	canvas := rec.Last()
	require.NotNil(t, canvas)
	require.Len(t, canvas.Ops, 6)
	assert.Equal(t, OpFont, canvas.Ops[0].Kind)
	assert.Equal(t, OpTemplate, canvas.Ops[1].Kind)
	assert.Equal(t, []string{"00007", "שלום"}, canvas.Texts())

	text := canvas.Ops[5]
	assert.Equal(t, "Alef", text.Font)
	assert.Equal(t, 12.0, text.Size)
	assert.Equal(t, 112.0, text.X)

	var buf bytes.Buffer
	require.NoError(t, canvas.Output(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "page 125.00x160.00 mm title=\"Dalya\""))
	assert.Contains(t, out, "text Helvetica 10.0pt @(75.000, 127.500) \"00007\"")
	assert.Len(t, rec.Canvases(), 1)
}
