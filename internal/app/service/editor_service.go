package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront-api/internal/app/dto"
	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogWriter is the part of the catalog the editor saves into
type CatalogWriter interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	Add(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error
}

type editorSession struct {
	editor *domain.Editor
	// cancels the outstanding description request, if any
	cancel  context.CancelFunc
	touched time.Time
}

// reset stops any outstanding description request before the draft changes
func (es *editorSession) reset() {
	if es.cancel != nil {
		es.cancel()
		es.cancel = nil
	}
}

// EditorService runs one admin product editor per session. A session is held
// only while its editor is open; idle ones are dropped by Sweep.
type EditorService struct {
	mu           sync.Mutex
	sessions     map[string]*editorSession
	wg           sync.WaitGroup
	catalog      CatalogWriter
	generator    domain.DescriptionGenerator
	images       domain.ImageEncoder
	timeout      time.Duration
	newID        func() string
	now          func() time.Time
	tracer       trace.Tracer
	logger       *slog.Logger
	descriptions metric.Int64Counter
}

// NewEditorService creates a new editor service
func NewEditorService(
	catalog CatalogWriter,
	generator domain.DescriptionGenerator,
	images domain.ImageEncoder,
	timeout time.Duration,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *EditorService {
	descriptions, _ := meter.Int64Counter(
		"editor.descriptions.total",
		metric.WithDescription("Description generation requests by outcome"),
	)

	return &EditorService{
		sessions:     make(map[string]*editorSession),
		catalog:      catalog,
		generator:    generator,
		images:       images,
		timeout:      timeout,
		newID:        uuid.NewString,
		now:          time.Now,
		tracer:       tracer,
		logger:       logger,
		descriptions: descriptions,
	}
}

// lookup returns the session editor without creating one; callers hold mu
func (s *EditorService) lookup(sessionID string) (*editorSession, bool) {
	es, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	es.touched = s.now()
	return es, true
}

// open returns the session editor, creating it if needed; callers hold mu
func (s *EditorService) open(sessionID string) *editorSession {
	es, ok := s.lookup(sessionID)
	if !ok {
		es = &editorSession{editor: domain.NewEditor(), touched: s.now()}
		s.sessions[sessionID] = es
	}
	return es
}

// drop forgets the session and abandons its pending description; callers hold mu
func (s *EditorService) drop(sessionID string, es *editorSession) {
	es.reset()
	delete(s.sessions, sessionID)
}

func closedEditor() *dto.EditorResponse {
	return dto.ToEditorResponse(domain.NewEditor())
}

// Get returns the current editor state
func (s *EditorService) Get(sessionID string) *dto.EditorResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.lookup(sessionID)
	if !ok {
		return closedEditor()
	}
	return dto.ToEditorResponse(es.editor)
}

// StartCreate opens a blank draft
func (s *EditorService) StartCreate(ctx context.Context, sessionID string) *dto.EditorResponse {
	_, span := s.tracer.Start(ctx, "EditorService.StartCreate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	es := s.open(sessionID)
	es.reset()
	es.editor.StartCreate()
	return dto.ToEditorResponse(es.editor)
}

// StartEdit opens a draft seeded from an existing product
func (s *EditorService) StartEdit(ctx context.Context, sessionID, productID string) (*dto.EditorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.StartEdit")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	es := s.open(sessionID)
	es.reset()
	es.editor.StartEdit(p)
	return dto.ToEditorResponse(es.editor), nil
}

// Update overwrites draft fields
func (s *EditorService) Update(sessionID string, patch domain.DraftPatch) (*dto.EditorResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.lookup(sessionID)
	if !ok {
		return nil, domain.ErrEditorClosed
	}
	if err := es.editor.Update(patch); err != nil {
		return nil, err
	}
	return dto.ToEditorResponse(es.editor), nil
}

// UploadImage encodes the raw image and stores it in the draft
func (s *EditorService) UploadImage(ctx context.Context, sessionID string, data []byte) (*dto.EditorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.UploadImage")
	defer span.End()

	span.SetAttributes(attribute.Int("image.size", len(data)))

	encoded, err := s.images.Encode(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Image encoding failed")
		s.logger.WarnContext(ctx, "Image upload rejected", slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.lookup(sessionID)
	if !ok {
		return nil, domain.ErrEditorClosed
	}
	if err := es.editor.SetImage(encoded); err != nil {
		return nil, err
	}
	return dto.ToEditorResponse(es.editor), nil
}

// RequestDescription starts generating a description in the background and
// returns the draft in its pending state. The result is applied only if the
// draft has not been reset or closed in the meantime.
func (s *EditorService) RequestDescription(ctx context.Context, sessionID string) (*dto.EditorResponse, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.RequestDescription")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.lookup(sessionID)
	if !ok {
		span.SetStatus(codes.Error, domain.ErrEditorClosed.Error())
		return nil, domain.ErrEditorClosed
	}
	ticket, err := es.editor.BeginDescription()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("editor.generation", int64(ticket.Generation)))

	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	es.cancel = cancel

	s.wg.Add(1)
	go s.describe(genCtx, cancel, sessionID, es, ticket)

	return dto.ToEditorResponse(es.editor), nil
}

func (s *EditorService) describe(ctx context.Context, cancel context.CancelFunc, sessionID string, es *editorSession, ticket domain.DescriptionTicket) {
	defer s.wg.Done()
	defer cancel()

	text := s.generator.Generate(ctx, ticket.Name, string(ticket.Category))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[sessionID] != es || !es.editor.CompleteDescription(ticket, text) {
		s.record(ctx, "stale")
		s.logger.DebugContext(ctx, "Discarded stale description",
			slog.Uint64("generation", ticket.Generation),
		)
		return
	}

	es.cancel = nil
	s.record(ctx, "applied")
	s.logger.InfoContext(ctx, "Description applied to draft",
		slog.String("product_name", ticket.Name),
	)
}

// Submit validates the draft and saves it into the catalog. The editor
// stays open when validation or saving fails.
func (s *EditorService) Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.Submit")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	es, ok := s.lookup(sessionID)
	if !ok {
		span.SetStatus(codes.Error, domain.ErrEditorClosed.Error())
		return nil, domain.ErrEditorClosed
	}
	before := *es.editor

	p, mode, err := es.editor.Submit(s.newID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.id", p.ID),
		attribute.String("editor.mode", string(mode)),
	)

	if mode == domain.EditorEditing {
		err = s.catalog.Update(ctx, p)
	} else {
		err = s.catalog.Add(ctx, p)
	}
	if err != nil {
		*es.editor = before
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save product")
		return nil, err
	}

	s.drop(sessionID, es)
	span.SetStatus(codes.Ok, "Product saved")
	return &dto.SubmitResponse{Mode: string(mode), Product: dto.ToProductResponse(p)}, nil
}

// Cancel discards the draft without touching the catalog
func (s *EditorService) Cancel(sessionID string) *dto.EditorResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	if es, ok := s.sessions[sessionID]; ok {
		es.editor.Cancel()
		s.drop(sessionID, es)
	}
	return closedEditor()
}

// Sweep drops editor sessions untouched for longer than idle, abandoning
// their pending descriptions, and returns how many were dropped
func (s *EditorService) Sweep(ctx context.Context, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	dropped := 0
	for id, es := range s.sessions {
		if es.touched.Before(cutoff) {
			s.drop(id, es)
			dropped++
		}
	}

	if dropped > 0 {
		s.logger.InfoContext(ctx, "Idle editor sessions dropped",
			slog.Int("dropped", dropped),
			slog.Int("remaining", len(s.sessions)),
		)
	}
	return dropped
}

// Wait blocks until outstanding description requests have finished
func (s *EditorService) Wait() {
	s.wg.Wait()
}

func (s *EditorService) record(ctx context.Context, outcome string) {
	s.descriptions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
