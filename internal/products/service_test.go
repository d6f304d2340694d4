package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
	"github.com/basketwise/basketwise-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS products (
  gtin TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newCatalogService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc
}

func catalogCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNilf(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, want, typed.Code())
}

func TestCatalogCreateAndGet(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{
		GTIN:        " 00012345678905 ",
		Description: "  Whole Milk 1L  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "00012345678905", created.GTIN)
	assert.Equal(t, "Whole Milk 1L", created.Description)

	got, err := svc.Get(ctx, "00012345678905")
	require.NoError(t, err)
	assert.Equal(t, "Whole Milk 1L", got.Description)

	// Re-registering the same GTIN is a conflict, not an overwrite.
	_, err = svc.Create(ctx, CreateProductInput{
		GTIN:        "00012345678905",
		Description: "Skim Milk 1L",
	})
	catalogCode(t, err, pkgerrors.CodeConflict)
}

func TestCatalogGetMissingNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)

	_, err := svc.Get(context.Background(), "99999999999990")
	catalogCode(t, err, pkgerrors.CodeNotFound)
}

func TestCatalogSearchPagesWithCursor(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	// The in-memory DB is shared across the package's tests, so a private
	// description token keeps this query scoped to these rows.
	seeded := []string{
		"00077777777701",
		"00077777777702",
		"00077777777703",
		"00077777777704",
		"00077777777705",
	}
	for _, gtin := range seeded {
		_, err := svc.Create(ctx, CreateProductInput{
			GTIN:        gtin,
			Description: "pagerfruit crate " + gtin,
		})
		require.NoError(t, err)
	}

	collected := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.Search(ctx, "pagerfruit", pagination.Params{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		pages++
		require.LessOrEqual(t, len(page.Products), 2)
		for _, p := range page.Products {
			require.Falsef(t, collected[p.GTIN], "gtin %s returned twice", p.GTIN)
			collected[p.GTIN] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Equal(t, 3, pages)
	require.Len(t, collected, len(seeded))
	for _, gtin := range seeded {
		assert.Truef(t, collected[gtin], "gtin %s missing from pages", gtin)
	}
}

func TestCatalogSearchFiltersCaseInsensitively(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{
		GTIN:        "00088888888801",
		Description: "Zingberry Jam 300g",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductInput{
		GTIN:        "00088888888802",
		Description: "Plain Crackers",
	})
	require.NoError(t, err)

	page, err := svc.Search(ctx, "ZINGBERRY", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "00088888888801", page.Products[0].GTIN)
	assert.Empty(t, page.NextCursor)
}

func TestCatalogSearchRejectsBadCursor(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)

	_, err := svc.Search(context.Background(), "", pagination.Params{Limit: 10, Cursor: "not-a-cursor!!!"})
	catalogCode(t, err, pkgerrors.CodeValidation)
}

func TestCatalogUpdateAndDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{
		GTIN:        "00099999999901",
		Description: "Oat Flakes",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "00099999999901", UpdateProductInput{Description: "Oat Flakes 500g"})
	require.NoError(t, err)
	assert.Equal(t, "Oat Flakes 500g", updated.Description)

	_, err = svc.Update(ctx, "00099999999902", UpdateProductInput{Description: "Ghost"})
	catalogCode(t, err, pkgerrors.CodeNotFound)

	require.NoError(t, svc.Delete(ctx, "00099999999901"))
	_, err = svc.Get(ctx, "00099999999901")
	catalogCode(t, err, pkgerrors.CodeNotFound)
}
