package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCategory = errors.New("invalid product category")

// Category is one of the fixed catalog category labels
type Category string

const (
	CategoryVestido   Category = "Vestido"
	CategoryBlusa     Category = "Blusa"
	CategoryCalca     Category = "Calça"
	CategoryShorts    Category = "Shorts"
	CategoryConjuntos Category = "Conjuntos"
	CategorySaias     Category = "Saias"
	CategoryBolsas    Category = "Bolsas"
	CategoryOculos    Category = "Oculos"

	// DefaultCategory is preselected on new drafts
	DefaultCategory = CategoryVestido
)

// AllCategoriesLabel is the selector label meaning "no category filter".
// It is never a valid Category.
const AllCategoriesLabel = "Todos"

var categories = []Category{
	CategoryVestido,
	CategoryBlusa,
	CategoryCalca,
	CategoryShorts,
	CategoryConjuntos,
	CategorySaias,
	CategoryBolsas,
	CategoryOculos,
}

// Categories returns the category labels in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c belongs to the closed category set
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a label into a Category
func ParseCategory(label string) (Category, error) {
	c := Category(label)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, label)
	}
	return c, nil
}

// UnmarshalText rejects labels outside the category set, so a persisted or
// submitted product can never carry an unknown category.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategorySelector is either "all categories" or one specific category
type CategorySelector struct {
	all      bool
	category Category
}

// AllCategories selects every category
func AllCategories() CategorySelector {
	return CategorySelector{all: true}
}

// SelectCategory selects a single category
func SelectCategory(c Category) CategorySelector {
	return CategorySelector{category: c}
}

// ParseSelector accepts "", "Todos" or a category label
func ParseSelector(label string) (CategorySelector, error) {
	if label == "" || label == AllCategoriesLabel {
		return AllCategories(), nil
	}
	c, err := ParseCategory(label)
	if err != nil {
		return CategorySelector{}, err
	}
	return SelectCategory(c), nil
}

// IsAll reports whether the selector matches every category
func (s CategorySelector) IsAll() bool {
	return s.all
}

// Category returns the selected category; empty when IsAll
func (s CategorySelector) Category() Category {
	return s.category
}

func (s CategorySelector) String() string {
	if s.all {
		return AllCategoriesLabel
	}
	return string(s.category)
}

// Filter projects the catalog through the selector, preserving order
func Filter(catalog []Product, selector CategorySelector) []Product {
	if selector.all {
		return catalog
	}
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if p.Category == selector.category {
			out = append(out, p)
		}
	}
	return out
}
