package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAddRemoveRoundTrip(t *testing.T) {
	before := StarterCatalog()

	added, err := AddProduct(before, product("new", "10"))
	require.NoError(t, err)
	require.Len(t, added, len(before)+1)

	after, removed := RemoveProduct(added, "new")
	assert.True(t, removed)
	assert.Equal(t, before, after)
}

func TestCatalogAddRejectsDuplicateID(t *testing.T) {
	_, err := AddProduct(StarterCatalog(), product("1", "10"))
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestCatalogUpdate(t *testing.T) {
	catalog := StarterCatalog()

	updated, ok := UpdateProduct(catalog, Product{ID: "2", Name: "Blusa Nova", Category: CategoryBlusa})
	require.True(t, ok)
	assert.Equal(t, "Blusa Nova", updated[1].Name)
	assert.Equal(t, "Blusa de Seda Branca", catalog[1].Name)

	same, ok := UpdateProduct(catalog, Product{ID: "zzz"})
	assert.False(t, ok)
	assert.Equal(t, catalog, same)
}
