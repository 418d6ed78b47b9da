package dto

import "github.com/mrops-br/storefront-api/internal/domain"

// UpdateDraftRequest carries the draft fields to overwrite. Omitted fields
// are left untouched; price is text exactly as typed.
type UpdateDraftRequest struct {
	Name        *string `json:"name"`
	Price       *string `json:"price"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
}

// EditorResponse represents the admin editor state
type EditorResponse struct {
	Mode                  string       `json:"mode"`
	ProductID             string       `json:"product_id,omitempty"`
	Draft                 domain.Draft `json:"draft"`
	GeneratingDescription bool         `json:"generating_description"`
}

// SubmitResponse is returned when a draft is saved into the catalog
type SubmitResponse struct {
	Mode    string           `json:"mode"`
	Product *ProductResponse `json:"product"`
}

// ToDraftPatch converts the request into a domain patch
func (r *UpdateDraftRequest) ToDraftPatch() (domain.DraftPatch, error) {
	patch := domain.DraftPatch{
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
	}
	if r.Category != nil {
		c, err := domain.ParseCategory(*r.Category)
		if err != nil {
			return domain.DraftPatch{}, &domain.ValidationError{Field: "category", Err: err}
		}
		patch.Category = &c
	}
	return patch, nil
}

// ToEditorResponse converts the editor state to EditorResponse
func ToEditorResponse(e *domain.Editor) *EditorResponse {
	return &EditorResponse{
		Mode:                  string(e.Mode()),
		ProductID:             e.OriginalID(),
		Draft:                 e.Draft(),
		GeneratingDescription: e.DescriptionPending(),
	}
}
