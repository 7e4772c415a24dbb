package render

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ginjaninja78/receipts/internal/coords"
)

// Op kinds recorded by a RecordingCanvas
const (
	OpFont     = "font"
	OpTemplate = "template"
	OpSetFont  = "setfont"
	OpText     = "text"
	OpImage    = "image"
)

// Op is one recorded drawing call
type Op struct {
	Kind string
	Path string
	Font string
	Size float64
	X    float64
	Y    float64
	Rect coords.Rect
	Text string
}

// Recorder is a Backend that keeps drawing calls instead of producing a PDF.
// Its output is a plain-text listing, which the dry-run mode prints
type Recorder struct {
	mu       sync.Mutex
	canvases []*RecordingCanvas
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewCanvas starts recording a new page
func (r *Recorder) NewCanvas(page PageSize) (Canvas, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &RecordingCanvas{Page: page}
	r.canvases = append(r.canvases, c)
	return c, nil
}

// Canvases returns every canvas created so far
func (r *Recorder) Canvases() []*RecordingCanvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RecordingCanvas(nil), r.canvases...)
}

// Last returns the most recent canvas or nil
func (r *Recorder) Last() *RecordingCanvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.canvases) == 0 {
		return nil
	}
	return r.canvases[len(r.canvases)-1]
}

// RecordingCanvas stores calls in order
type RecordingCanvas struct {
	Page    PageSize
	Ops     []Op
	Title   string
	Created time.Time

	font string
	size float64
}

func (c *RecordingCanvas) RegisterFont(family, path string) error {
	c.Ops = append(c.Ops, Op{Kind: OpFont, Font: family, Path: path})
	return nil
}

func (c *RecordingCanvas) DrawTemplate(path string) error {
	c.Ops = append(c.Ops, Op{Kind: OpTemplate, Path: path})
	return nil
}

func (c *RecordingCanvas) SetFont(family string, sizePt float64) error {
	c.font, c.size = family, sizePt
	c.Ops = append(c.Ops, Op{Kind: OpSetFont, Font: family, Size: sizePt})
	return nil
}

func (c *RecordingCanvas) DrawRightString(x, y float64, text string) error {
	c.Ops = append(c.Ops, Op{Kind: OpText, Font: c.font, Size: c.size, X: x, Y: y, Text: text})
	return nil
}

func (c *RecordingCanvas) DrawImage(path string, r coords.Rect) error {
	c.Ops = append(c.Ops, Op{Kind: OpImage, Path: path, Rect: r})
	return nil
}

func (c *RecordingCanvas) SetTitle(title string) {
	c.Title = title
}

func (c *RecordingCanvas) SetCreationDate(t time.Time) {
	c.Created = t
}

// Texts returns the drawn strings in order
func (c *RecordingCanvas) Texts() []string {
	var texts []string
	for _, op := range c.Ops {
		if op.Kind == OpText {
			texts = append(texts, op.Text)
		}
	}
	return texts
}

// Output writes one line per drawing call
func (c *RecordingCanvas) Output(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "page %.2fx%.2f mm title=%q created=%s\n",
		c.Page.W, c.Page.H, c.Title, c.Created.Format(time.RFC3339)); err != nil {
		return err
	}
	for _, op := range c.Ops {
		var err error
		switch op.Kind {
		case OpText:
			_, err = fmt.Fprintf(w, "text %s %.1fpt @(%.3f, %.3f) %q\n", op.Font, op.Size, op.X, op.Y, op.Text)
		case OpImage:
			_, err = fmt.Fprintf(w, "image %s @(%.3f, %.3f) %.3fx%.3f\n", op.Path, op.Rect.X, op.Rect.Y, op.Rect.W, op.Rect.H)
		case OpSetFont:
			_, err = fmt.Fprintf(w, "setfont %s %.1fpt\n", op.Font, op.Size)
		default:
			_, err = fmt.Fprintf(w, "%s %s %s\n", op.Kind, op.Font, op.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
