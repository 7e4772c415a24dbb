package receipts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/receipts/internal/composer"
	"github.com/ginjaninja78/receipts/internal/config"
	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/render"
	"github.com/ginjaninja78/receipts/internal/shaper"
	"github.com/ginjaninja78/receipts/internal/store"
)

type fixture struct {
	cfg      *config.Config
	store    *store.Store
	recorder *render.Recorder
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	resources := t.TempDir()
	for _, name := range []string{"template.png", "Alef-Regular.ttf", "HoniSigneture.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(resources, name), []byte(name), 0644))
	}

	cfg := config.Default()
	cfg.DBDir = t.TempDir()
	cfg.ResourceDir = resources
	cfg.Template = "template.png"

	st := store.New(store.Options{
		Dir:         cfg.DBDir,
		LockTimeout: time.Second,
		RetryDelay:  5 * time.Millisecond,
	})
	recorder := render.NewRecorder()
	comp := composer.New(cfg, recorder, shaper.New(shaper.Options{}), nil)

	return &fixture{
		cfg:      cfg,
		store:    st,
		recorder: recorder,
		service:  NewService(cfg, comp, st, nil),
	}
}

func TestGenerate_ComposeThenCommit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.store.CounterPath(), []byte("00007"), 0644))

	rec := &record.Receipt{RecipeNum: "00007", Payment: "300", Customer: "דליה", Date: "5/7/2025"}
	result, err := f.service.Generate(context.Background(), rec, "")
	require.NoError(t, err)

	want := filepath.Join(f.cfg.DBDir, "דליה 00007 jul 25.pdf")
	assert.Equal(t, want, result.Artifact.Path)
	assert.FileExists(t, want)
	assert.Equal(t, "00007", result.Commit.Key)
	assert.Equal(t, "00008", result.Commit.NextNumber)
	assert.True(t, result.Validation.OK())

	entry, err := f.store.Lookup("00007")
	require.NoError(t, err)
	assert.Equal(t, "דליה", entry.Customer)
	assert.Equal(t, "300", entry.Receipt.Payment)
}

func TestGenerate_PadsNumber(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Generate(context.Background(), &record.Receipt{RecipeNum: "3", Customer: "Avi"}, "")
	require.NoError(t, err)
	assert.Equal(t, "00003", result.Receipt.RecipeNum)
	assert.Equal(t, filepath.Join(f.cfg.DBDir, "Avi 00003.pdf"), result.Artifact.Path)
}

func TestGenerate_ComposeFailureDoesNotCommit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.cfg.ResourceDir, "template.png")))

	_, err := f.service.Generate(context.Background(), &record.Receipt{RecipeNum: "00001", Customer: "Avi"}, "")
	require.Error(t, err)
	assert.True(t, composer.IsResourceMissing(err))

	n, err := f.store.NextNumber()
	require.NoError(t, err)
	assert.Equal(t, "00001", n)
	assert.NoFileExists(t, f.store.HistoryPath())
}

func TestGenerate_DuplicateNumberWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, &record.Receipt{RecipeNum: "00001", Customer: "Avi"}, "")
	require.NoError(t, err)
	drawn := len(f.recorder.Canvases())

	out := filepath.Join(t.TempDir(), "dup.pdf")
	_, err = f.service.Generate(ctx, &record.Receipt{RecipeNum: "00001", Customer: "Dalya"}, out)
	require.Error(t, err)
	assert.True(t, store.IsDuplicateKey(err))
	assert.NoFileExists(t, out)
	assert.Len(t, f.recorder.Canvases(), drawn)
}

func TestGenerate_MissingNumber(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Generate(context.Background(), &record.Receipt{Customer: "Avi"}, "")
	assert.ErrorIs(t, err, store.ErrMissingNumber)
}

func TestRegenerate_NeverCommits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, &record.Receipt{RecipeNum: "00004", Customer: "Avi", Date: "1/8/2025"}, "")
	require.NoError(t, err)
	historyBefore, err := os.ReadFile(f.store.HistoryPath())
	require.NoError(t, err)
	counterBefore, err := os.ReadFile(f.store.CounterPath())
	require.NoError(t, err)

	artifact, err := f.service.Regenerate(ctx, "4", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.cfg.DBDir, "Avi 00004 aug 25_recreate.pdf"), artifact.Path)
	assert.FileExists(t, artifact.Path)

	historyAfter, err := os.ReadFile(f.store.HistoryPath())
	require.NoError(t, err)
	counterAfter, err := os.ReadFile(f.store.CounterPath())
	require.NoError(t, err)
	assert.Equal(t, historyBefore, historyAfter)
	assert.Equal(t, counterBefore, counterAfter)
}

func TestRegenerate_SameVisibleText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := &record.Receipt{RecipeNum: "00007", Payment: "300", Customer: "דליה", Date: "5/7/2025"}
	_, err := f.service.Generate(ctx, rec, "")
	require.NoError(t, err)
	first := f.recorder.Last().Texts()

	_, err = f.service.Regenerate(ctx, "00007", filepath.Join(t.TempDir(), "again.pdf"))
	require.NoError(t, err)
	assert.Equal(t, first, f.recorder.Last().Texts())
}

func TestRegenerate_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Regenerate(context.Background(), "00099", "")
	assert.True(t, store.IsNotFound(err))
}

func TestPrepare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tmpl := store.NewCustomer("Dalya")
	tmpl.Payment = "300"
	tmpl.Description = "שכר דירה"
	require.NoError(t, f.store.PutCustomer(ctx, "Dalya", tmpl))
	require.NoError(t, os.WriteFile(f.store.CounterPath(), []byte("00012"), 0644))

	rec, err := f.service.Prepare("Dalya", map[string]string{"Date": "1/9/2025", "note": "september"})
	require.NoError(t, err)
	assert.Equal(t, "00012", rec.RecipeNum)
	assert.Equal(t, "300", rec.Payment)
	assert.Equal(t, "1/9/2025", rec.Date)
	assert.Equal(t, "september", rec.Extra["note"])

	rec, err = f.service.Prepare("", map[string]string{"recipeNum": "00050"})
	require.NoError(t, err)
	assert.Equal(t, "00050", rec.RecipeNum)

	_, err = f.service.Prepare("Nobody", nil)
	assert.True(t, store.IsNotFound(err))
}
