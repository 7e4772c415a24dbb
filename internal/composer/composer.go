// =============================================================================
// Receipts - Composer Module
// =============================================================================
//
// This module turns one receipt record into a single-page document. It owns
// no persistent state: committing the record to history is the caller's job
// and happens only after Compose returns successfully.
//
// COMPOSITION PIPELINE:
//   1. Resolve resources (template, fonts, signature)
//   2. Open a page on the rendering backend
//   3. Register fonts and draw the template
//   4. Draw the text fields at their anchors
//   5. Draw the signature image
//   6. Set document metadata
//   7. Write the document atomically
//
// COORDINATES:
//   Field boxes are measured in the design tool's space (top-left origin,
//   millimetres) against an authoring page height that differs from the
//   output page by one millimetre. The coords package maps them into render
//   space; the backend takes it from there.
//
// =============================================================================

package composer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/config"
	"github.com/ginjaninja78/receipts/internal/coords"
	"github.com/ginjaninja78/receipts/internal/layout"
	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/render"
	"github.com/ginjaninja78/receipts/internal/shaper"
	"github.com/ginjaninja78/receipts/pkg/utils"
)

// DefaultCreationDate is embedded when a record has no usable Date.
var DefaultCreationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Artifact describes a composed document.
type Artifact struct {
	// Path is the written file. Empty for Render.
	Path string

	// Receipt is the receipt number as drawn.
	Receipt string

	// Title is the document title metadata.
	Title string

	// Format is the variable-line layout that was used.
	Format layout.Format

	// Size is the document size in bytes.
	Size int

	// Warnings lists non-fatal problems such as a missing signature.
	Warnings []string

	// Duration is the time taken to compose.
	Duration time.Duration
}

// =============================================================================
// COMPOSER STRUCTURE
// =============================================================================

// Composer draws receipts with a rendering backend.
type Composer struct {
	cfg     *config.Config
	backend render.Backend
	shaper  *shaper.Shaper
	logger  *zap.Logger
}

// resources holds resolved resource paths for one composition.
type resources struct {
	template  string
	regular   string
	bold      string
	signature string
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Composer.
//
// PARAMETERS:
//   - cfg: The application configuration (resource paths, page size).
//   - backend: The rendering backend, e.g. render.NewFPDF().
//   - s: The text shaper used for script fields.
//   - logger: The logger. nil disables logging.
//
// RETURNS:
//   - A new Composer instance.
func New(cfg *config.Config, backend render.Backend, s *shaper.Shaper, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s == nil {
		s = shaper.New(shaper.Options{})
	}
	return &Composer{
		cfg:     cfg,
		backend: backend,
		shaper:  s,
		logger:  logger.Named("composer"),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Compose renders rec and writes it to outputPath. The parent directory is
// created when missing and an existing file is replaced atomically. rec is
// not modified.
//
// RETURNS:
//   - The Artifact describing the written document.
//   - A *RenderError on failure; nothing is written in that case.
func (c *Composer) Compose(ctx context.Context, rec *record.Receipt, outputPath string) (*Artifact, error) {
	var buf bytes.Buffer
	artifact, err := c.render(ctx, rec, outputPath, &buf)
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 7: WRITE OUTPUT FILE
	// =========================================================================

	if err := ctx.Err(); err != nil {
		return nil, newError(ErrCodeWriteFailed, "composition cancelled", rec.RecipeNum, outputPath, err)
	}
	if err := utils.WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
		return nil, newError(ErrCodeWriteFailed, "failed to write receipt", rec.RecipeNum, outputPath, err)
	}

	artifact.Path = outputPath
	c.logger.Info("receipt written",
		zap.String("receipt", artifact.Receipt),
		zap.String("path", outputPath),
		zap.Int("bytes", artifact.Size),
		zap.Duration("duration", artifact.Duration))

	return artifact, nil
}

// Render draws rec and writes the backend's output to w without touching
// the filesystem. With a render.Recorder backend the output is a listing of
// drawing operations.
func (c *Composer) Render(ctx context.Context, rec *record.Receipt, w io.Writer) (*Artifact, error) {
	var buf bytes.Buffer
	artifact, err := c.render(ctx, rec, "", &buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, newError(ErrCodeWriteFailed, "failed to write output", rec.RecipeNum, "", err)
	}
	return artifact, nil
}

func (c *Composer) render(ctx context.Context, rec *record.Receipt, outputPath string, out *bytes.Buffer) (*Artifact, error) {
	startTime := time.Now()
	number := rec.RecipeNum
	fail := func(code ErrorCode, message string, cause error) (*Artifact, error) {
		return nil, newError(code, message, number, outputPath, cause)
	}

	if err := ctx.Err(); err != nil {
		return fail(ErrCodeRenderFailed, "composition cancelled", err)
	}

	artifact := &Artifact{
		Receipt: number,
		Format:  layout.FormatOf(rec),
	}

	// =========================================================================
	// STEP 1: RESOLVE RESOURCES
	// =========================================================================
	// The template and the regular font are required. The bold font and the
	// signature are optional.

	res, warnings, err := c.resolveResources()
	if err != nil {
		return fail(ErrCodeResourceMissing, "missing resource", err)
	}
	for _, w := range warnings {
		c.logger.Warn(w, zap.String("receipt", number))
	}
	artifact.Warnings = append(artifact.Warnings, warnings...)

	// =========================================================================
	// STEP 2: OPEN PAGE
	// =========================================================================

	canvas, err := c.backend.NewCanvas(render.PageSize{W: c.cfg.Page.Width, H: c.cfg.Page.Height})
	if err != nil {
		return fail(ErrCodeRenderFailed, "failed to open page", err)
	}

	// =========================================================================
	// STEP 3: FONTS AND TEMPLATE
	// =========================================================================

	family := c.cfg.Fonts.Family
	if err := canvas.RegisterFont(family, res.regular); err != nil {
		return fail(ErrCodeRenderFailed, "failed to register font", err)
	}
	if res.bold != "" {
		if err := canvas.RegisterFont(family+"-Bold", res.bold); err != nil {
			return fail(ErrCodeRenderFailed, "failed to register font", err)
		}
	}

	if err := canvas.DrawTemplate(res.template); err != nil {
		return fail(ErrCodeRenderFailed, "failed to draw template", fmt.Errorf("%s: %w", res.template, err))
	}

	// =========================================================================
	// STEP 4: TEXT FIELDS
	// =========================================================================

	values := c.fieldValues(rec)
	for _, f := range Fields {
		text := values[f.Name]
		if text == "" {
			continue
		}

		font := f.Font
		if font == fontScript {
			font = family
		}
		if err := canvas.SetFont(font, f.Size); err != nil {
			return fail(ErrCodeRenderFailed, "failed to set font", err)
		}

		anchor := coords.TextAnchor(f.Box, c.cfg.Page.AuthoringHeight, f.Size)
		if err := canvas.DrawRightString(anchor.X, anchor.Y, c.prepare(f.kind, text)); err != nil {
			return fail(ErrCodeRenderFailed, "failed to draw "+f.Name, err)
		}
	}

	// =========================================================================
	// STEP 5: SIGNATURE
	// =========================================================================

	if res.signature != "" {
		rect := coords.ImageRect(SignatureBox, c.cfg.Page.AuthoringHeight)
		if err := canvas.DrawImage(res.signature, rect); err != nil {
			return fail(ErrCodeRenderFailed, "failed to draw signature", err)
		}
	}

	// =========================================================================
	// STEP 6: METADATA
	// =========================================================================
	// The creation date comes from the record so that the same record always
	// produces the same bytes.

	artifact.Title = c.shaper.Shape(rec.CustomerName())
	canvas.SetTitle(artifact.Title)
	canvas.SetCreationDate(creationDate(rec))

	if err := canvas.Output(out); err != nil {
		return fail(ErrCodeRenderFailed, "failed to produce document", err)
	}

	artifact.Size = out.Len()
	artifact.Duration = time.Since(startTime)

	c.logger.Debug("receipt composed",
		zap.String("receipt", number),
		zap.String("format", string(artifact.Format)),
		zap.Int("bytes", artifact.Size))

	return artifact, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveResources checks the configured resource files.
//
// RETURNS:
//   - The resolved paths; optional resources that are absent are left empty.
//   - Warnings for absent optional resources that affect the page.
//   - An error naming the first missing required resource.
func (c *Composer) resolveResources() (resources, []string, error) {
	res := resources{
		template: c.cfg.Resource(c.cfg.Template),
		regular:  c.cfg.Resource(c.cfg.Fonts.Regular),
	}

	for _, required := range []string{res.template, res.regular} {
		if !isFile(required) {
			return res, nil, fmt.Errorf("required resource not found: %s", required)
		}
	}

	if bold := c.cfg.Resource(c.cfg.Fonts.Bold); isFile(bold) {
		res.bold = bold
	}

	var warnings []string
	if sig := c.cfg.Resource(c.cfg.Signature); isFile(sig) {
		res.signature = sig
	} else if sig != "" {
		warnings = append(warnings, fmt.Sprintf("signature image not found, skipping: %s", sig))
	}

	return res, warnings, nil
}

// fieldValues maps field names to the record values drawn in them.
func (c *Composer) fieldValues(rec *record.Receipt) map[string]string {
	return map[string]string{
		FieldNumber:       rec.RecipeNum,
		FieldPayment:      rec.Payment,
		FieldMamVal:       rec.MamVal,
		FieldDescription1: rec.Description,
		FieldDescription2: rec.Description,
		FieldVariableLine: layout.VariableLine(rec),
		FieldDate:         rec.Date,
	}
}

// prepare converts a field value into the string handed to the backend.
func (c *Composer) prepare(kind textKind, text string) string {
	switch kind {
	case logical:
		return c.shaper.Shape(text)
	case visual:
		return c.shaper.ShapeVisual(text)
	default:
		return text
	}
}

// creationDate derives the document timestamp from the record's Date.
func creationDate(rec *record.Receipt) time.Time {
	if d, ok := record.ParseDate(rec.Date); ok {
		return d.Time()
	}
	return DefaultCreationDate
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
