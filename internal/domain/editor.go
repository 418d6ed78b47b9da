package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEditorClosed       = errors.New("no product is being edited")
	ErrDescriptionPending = errors.New("description generation already in progress")
	ErrDraftNameRequired  = errors.New("product name is required to generate a description")
)

// ValidationError reports why a draft could not be turned into a product
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EditorMode is the admin editor state
type EditorMode string

const (
	EditorClosed   EditorMode = "closed"
	EditorCreating EditorMode = "creating"
	EditorEditing  EditorMode = "editing"
)

// Draft holds the editable product fields. Price is kept as entered.
type Draft struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// DraftPatch carries the draft fields to overwrite; nil fields are left alone.
type DraftPatch struct {
	Name        *string
	Price       *string
	Category    *Category
	Image       *string
	Description *string
}

// DescriptionTicket identifies one description request. Its result is only
// applied while Generation matches the editor's current generation.
type DescriptionTicket struct {
	Generation uint64
	Name       string
	Category   Category
}

// Editor is the admin product editor state machine
type Editor struct {
	mode       EditorMode
	originalID string
	draft      Draft
	generation uint64
	pending    bool
}

// NewEditor returns a closed editor
func NewEditor() *Editor {
	return &Editor{mode: EditorClosed}
}

// Mode returns the current editor state
func (e *Editor) Mode() EditorMode {
	if e.mode == "" {
		return EditorClosed
	}
	return e.mode
}

// Draft returns a copy of the working draft
func (e *Editor) Draft() Draft {
	return e.draft
}

// OriginalID is the backing product id while editing
func (e *Editor) OriginalID() string {
	return e.originalID
}

// Generation is bumped every time the draft is reset or closed
func (e *Editor) Generation() uint64 {
	return e.generation
}

// DescriptionPending reports whether a description request is outstanding
func (e *Editor) DescriptionPending() bool {
	return e.pending
}

// StartCreate opens a blank draft
func (e *Editor) StartCreate() {
	e.reset(EditorCreating, "", Draft{Category: DefaultCategory})
}

// StartEdit opens a draft seeded from p
func (e *Editor) StartEdit(p Product) {
	e.reset(EditorEditing, p.ID, Draft{
		Name:        p.Name,
		Price:       p.Price.String(),
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
	})
}

// Cancel discards the draft
func (e *Editor) Cancel() {
	e.reset(EditorClosed, "", Draft{})
}

// Update overwrites the draft fields present in patch
func (e *Editor) Update(patch DraftPatch) error {
	if e.Mode() == EditorClosed {
		return ErrEditorClosed
	}
	if patch.Name != nil {
		e.draft.Name = *patch.Name
	}
	if patch.Price != nil {
		e.draft.Price = *patch.Price
	}
	if patch.Category != nil {
		e.draft.Category = *patch.Category
	}
	if patch.Image != nil {
		e.draft.Image = *patch.Image
	}
	if patch.Description != nil {
		e.draft.Description = *patch.Description
	}
	return nil
}

// SetImage stores an embeddable image reference in the draft
func (e *Editor) SetImage(image string) error {
	return e.Update(DraftPatch{Image: &image})
}

// BeginDescription marks a description request as pending
func (e *Editor) BeginDescription() (DescriptionTicket, error) {
	if e.Mode() == EditorClosed {
		return DescriptionTicket{}, ErrEditorClosed
	}
	if e.pending {
		return DescriptionTicket{}, ErrDescriptionPending
	}
	if strings.TrimSpace(e.draft.Name) == "" {
		return DescriptionTicket{}, ErrDraftNameRequired
	}
	e.pending = true
	return DescriptionTicket{
		Generation: e.generation,
		Name:       e.draft.Name,
		Category:   e.draft.Category,
	}, nil
}

// CompleteDescription applies text if the ticket is still current and
// reports whether it did.
func (e *Editor) CompleteDescription(t DescriptionTicket, text string) bool {
	if !e.pending || t.Generation != e.generation || e.Mode() == EditorClosed {
		return false
	}
	e.draft.Description = text
	e.pending = false
	return true
}

// Submit validates the draft and returns the finalized product along with
// the mode it was submitted from. The editor closes on success.
func (e *Editor) Submit(newID func() string) (Product, EditorMode, error) {
	mode := e.Mode()
	if mode == EditorClosed {
		return Product{}, mode, ErrEditorClosed
	}

	p, err := e.draft.product()
	if err != nil {
		return Product{}, mode, err
	}
	if mode == EditorEditing {
		p.ID = e.originalID
	} else {
		p.ID = newID()
	}

	e.Cancel()
	return p, mode, nil
}

func (e *Editor) reset(mode EditorMode, originalID string, d Draft) {
	e.generation++
	e.pending = false
	e.mode = mode
	e.originalID = originalID
	e.draft = d
}

func (d Draft) product() (Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return Product{}, &ValidationError{Field: "name", Err: ErrInvalidProductName}
	}
	price, err := ParsePrice(d.Price)
	if err != nil {
		return Product{}, &ValidationError{Field: "price", Err: err}
	}
	if !d.Category.Valid() {
		return Product{}, &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}
	return Product{
		Name:        name,
		Price:       price,
		Category:    d.Category,
		Image:       d.Image,
		Description: d.Description,
	}, nil
}

// ParsePrice parses a price entered as text. Comma decimal separators are
// accepted; non-numeric and negative input is rejected.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrInvalidProductPrice
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidProductPrice, s)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, ErrInvalidProductPrice
	}
	return price, nil
}
