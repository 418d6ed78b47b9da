package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedGenerator blocks each call until release is closed
type gatedGenerator struct {
	release chan struct{}
	text    string
}

func newGatedGenerator(text string) *gatedGenerator {
	return &gatedGenerator{release: make(chan struct{}), text: text}
}

func (g *gatedGenerator) Generate(ctx context.Context, name, category string) string {
	<-g.release
	return g.text + " " + name
}

type staticEncoder struct {
	out string
	err error
}

func (e staticEncoder) Encode([]byte) (string, error) { return e.out, e.err }

func newEditorService(t *testing.T, gen domain.DescriptionGenerator) (*EditorService, *CatalogService) {
	t.Helper()
	catalog := newLoadedCatalog(t, newMemoryStore())
	svc := NewEditorService(catalog, gen, staticEncoder{out: "data:image/png;base64,AAAA"}, time.Second,
		testTracer, testMeter, testLogger)
	svc.newID = func() string { return "minted-id" }
	return svc, catalog
}

func ptr[T any](v T) *T { return &v }

func TestEditorServiceCreateFlow(t *testing.T) {
	ctx := context.Background()
	svc, catalog := newEditorService(t, newGatedGenerator(""))

	resp := svc.StartCreate(ctx, "admin")
	assert.Equal(t, "creating", resp.Mode)
	assert.Equal(t, domain.DefaultCategory, resp.Draft.Category)

	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Vestido X"), Price: ptr("129.90")})
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, "admin", []byte{1, 2, 3})
	require.NoError(t, err)

	out, err := svc.Submit(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "creating", out.Mode)
	assert.Equal(t, "minted-id", out.Product.ID)
	assert.InDelta(t, 129.90, out.Product.Price, 0.001)

	saved, err := catalog.Get(ctx, "minted-id")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", saved.Image)
	assert.Equal(t, "closed", svc.Get("admin").Mode)
}

func TestEditorServiceEditFlow(t *testing.T) {
	ctx := context.Background()
	svc, catalog := newEditorService(t, newGatedGenerator(""))

	resp, err := svc.StartEdit(ctx, "admin", "2")
	require.NoError(t, err)
	assert.Equal(t, "editing", resp.Mode)
	assert.Equal(t, "Blusa de Seda Branca", resp.Draft.Name)

	_, err = svc.Update("admin", domain.DraftPatch{Category: ptr(domain.CategoryConjuntos)})
	require.NoError(t, err)

	out, err := svc.Submit(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "2", out.Product.ID)

	saved, err := catalog.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryConjuntos, saved.Category)
	assert.Len(t, catalog.List(ctx, domain.AllCategories()), 3)
}

func TestEditorServiceStartEditUnknownProduct(t *testing.T) {
	svc, _ := newEditorService(t, newGatedGenerator(""))

	_, err := svc.StartEdit(context.Background(), "admin", "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestEditorServiceRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	svc, catalog := newEditorService(t, newGatedGenerator(""))

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr(""), Price: ptr("10")})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidProductName)
	assert.Equal(t, "creating", svc.Get("admin").Mode)
	assert.Len(t, catalog.List(ctx, domain.AllCategories()), 3)
}

func TestEditorServiceCancelLeavesCatalogAlone(t *testing.T) {
	ctx := context.Background()
	svc, catalog := newEditorService(t, newGatedGenerator(""))

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Bolsa"), Price: ptr("10")})
	require.NoError(t, err)

	resp := svc.Cancel("admin")

	assert.Equal(t, "closed", resp.Mode)
	assert.Len(t, catalog.List(ctx, domain.AllCategories()), 3)
}

func TestEditorServiceDescriptionApplied(t *testing.T) {
	ctx := context.Background()
	gen := newGatedGenerator("Elegante")
	svc, _ := newEditorService(t, gen)

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Saia Midi")})
	require.NoError(t, err)

	resp, err := svc.RequestDescription(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, resp.GeneratingDescription)

	_, err = svc.RequestDescription(ctx, "admin")
	assert.ErrorIs(t, err, domain.ErrDescriptionPending)

	// other edits proceed while the request is outstanding
	_, err = svc.Update("admin", domain.DraftPatch{Price: ptr("59.90")})
	require.NoError(t, err)

	close(gen.release)
	svc.Wait()

	got := svc.Get("admin")
	assert.False(t, got.GeneratingDescription)
	assert.Equal(t, "Elegante Saia Midi", got.Draft.Description)
	assert.Equal(t, "59.90", got.Draft.Price)
}

func TestEditorServiceDiscardsStaleDescription(t *testing.T) {
	ctx := context.Background()
	gen := newGatedGenerator("Late")
	svc, _ := newEditorService(t, gen)

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Saia")})
	require.NoError(t, err)
	_, err = svc.RequestDescription(ctx, "admin")
	require.NoError(t, err)

	svc.Cancel("admin")
	svc.StartCreate(ctx, "admin")

	close(gen.release)
	svc.Wait()

	got := svc.Get("admin")
	assert.Empty(t, got.Draft.Description)
	assert.False(t, got.GeneratingDescription)
}

func TestEditorServiceSubmitDuringPendingDescription(t *testing.T) {
	ctx := context.Background()
	gen := newGatedGenerator("Late")
	svc, catalog := newEditorService(t, gen)

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Shorts"), Price: ptr("49.90"), Description: ptr("Manual")})
	require.NoError(t, err)
	_, err = svc.RequestDescription(ctx, "admin")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "admin")
	require.NoError(t, err)

	close(gen.release)
	svc.Wait()

	saved, err := catalog.Get(ctx, "minted-id")
	require.NoError(t, err)
	assert.Equal(t, "Manual", saved.Description)
	assert.Equal(t, "closed", svc.Get("admin").Mode)
}

func TestEditorServiceRequestDescriptionNeedsName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEditorService(t, newGatedGenerator(""))

	_, err := svc.RequestDescription(ctx, "admin")
	assert.ErrorIs(t, err, domain.ErrEditorClosed)

	svc.StartCreate(ctx, "admin")
	_, err = svc.RequestDescription(ctx, "admin")
	assert.ErrorIs(t, err, domain.ErrDraftNameRequired)
}

func TestEditorServiceUploadImageError(t *testing.T) {
	ctx := context.Background()
	catalog := newLoadedCatalog(t, newMemoryStore())
	svc := NewEditorService(catalog, newGatedGenerator(""), staticEncoder{err: domain.ErrImageTooLarge}, time.Second,
		testTracer, testMeter, testLogger)

	svc.StartCreate(ctx, "admin")
	_, err := svc.UploadImage(ctx, "admin", make([]byte, 10))

	assert.True(t, errors.Is(err, domain.ErrImageTooLarge))
	assert.Empty(t, svc.Get("admin").Draft.Image)
}

func TestEditorServiceKeepsDraftWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{BlobStore: newMemoryStore()}
	catalog := newLoadedCatalog(t, store)
	svc := NewEditorService(catalog, newGatedGenerator(""), staticEncoder{}, time.Second, testTracer, testMeter, testLogger)

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Óculos"), Price: ptr("99")})
	require.NoError(t, err)
	store.failSaves = true

	_, err = svc.Submit(ctx, "admin")
	require.Error(t, err)

	got := svc.Get("admin")
	assert.Equal(t, "creating", got.Mode)
	assert.Equal(t, "Óculos", got.Draft.Name)
}

func TestEditorServiceReadsDoNotOpenSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEditorService(t, newGatedGenerator(""))

	assert.Equal(t, "closed", svc.Get("stranger").Mode)
	assert.Equal(t, "closed", svc.Cancel("stranger").Mode)

	_, err := svc.Update("stranger", domain.DraftPatch{Name: ptr("Saia")})
	assert.ErrorIs(t, err, domain.ErrEditorClosed)
	_, err = svc.UploadImage(ctx, "stranger", make([]byte, 10))
	assert.ErrorIs(t, err, domain.ErrEditorClosed)
	_, err = svc.Submit(ctx, "stranger")
	assert.ErrorIs(t, err, domain.ErrEditorClosed)

	assert.Empty(t, svc.sessions)
}

func TestEditorServiceClosingDropsSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEditorService(t, newGatedGenerator(""))

	svc.StartCreate(ctx, "admin")
	require.Len(t, svc.sessions, 1)
	svc.Cancel("admin")
	assert.Empty(t, svc.sessions)

	svc.StartCreate(ctx, "admin")
	_, err := svc.Update("admin", domain.DraftPatch{Name: ptr("Saia"), Price: ptr("59.90"), Description: ptr("Midi")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, svc.sessions)
}

func TestEditorServiceSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	gen := newGatedGenerator("Late")
	svc, _ := newEditorService(t, gen)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	svc.StartCreate(ctx, "idle")
	_, err := svc.Update("idle", domain.DraftPatch{Name: ptr("Saia")})
	require.NoError(t, err)
	_, err = svc.RequestDescription(ctx, "idle")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	svc.StartCreate(ctx, "busy")

	assert.Equal(t, 1, svc.Sweep(ctx, time.Hour))
	assert.Len(t, svc.sessions, 1)

	close(gen.release)
	svc.Wait()

	got := svc.Get("idle")
	assert.Equal(t, "closed", got.Mode)
	assert.Empty(t, got.Draft.Description)
	assert.Equal(t, "creating", svc.Get("busy").Mode)
	assert.Len(t, svc.sessions, 1)
}
