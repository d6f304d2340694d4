package prices

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/internal/products"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

const sqliteUUID = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(6))))`

func setupPricesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  gtin TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUID + `,
  hq_id TEXT NOT NULL,
  name TEXT NOT NULL,
  location TEXT NOT NULL,
  lat NUMERIC,
  lng NUMERIC,
  phone TEXT,
  email TEXT,
  owner_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS store_prices (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUID + `,
  store_id TEXT NOT NULL,
  product_gtin TEXT NOT NULL,
  price NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  in_stock INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, product_gtin)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newPriceService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(db),
		ProductRepo: products.NewRepository(db),
		StoreRepo:   stores.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedCatalog(t *testing.T, db *gorm.DB, gtins ...string) {
	t.Helper()
	for _, gtin := range gtins {
		require.NoError(t, db.Exec(
			`INSERT OR IGNORE INTO products (gtin, description) VALUES (?, ?)`, gtin, "item "+gtin,
		).Error)
	}
}

func seedPriceStore(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO stores (id, hq_id, name, location) VALUES (?, ?, ?, ?)`,
		id, uuid.New(), "Corner Grocer", "42 Side St",
	).Error)
	return id
}

func requireCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNilf(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, want, typed.Code())
}

func TestUpsertAppliesDefaultsAndRounding(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	got, err := svc.Upsert(ctx, storeID, UpsertPriceInput{
		ProductGTIN: "00012345678905",
		Price:       decimal.RequireFromString("2.999"),
	})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.00")), "price = %s", got.Price)
	assert.Equal(t, enums.CurrencyUSD, got.Currency)
	assert.True(t, got.InStock)
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	_, err := svc.Upsert(ctx, storeID, UpsertPriceInput{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.50")})
	require.NoError(t, err)

	outOfStock := false
	_, err = svc.Upsert(ctx, storeID, UpsertPriceInput{
		ProductGTIN: "00012345678905",
		Price:       decimal.RequireFromString("1.75"),
		Currency:    "EUR",
		InStock:     &outOfStock,
	})
	require.NoError(t, err)

	rows, err := svc.ListByStore(ctx, storeID, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("1.75")))
	assert.Equal(t, enums.CurrencyEUR, rows[0].Currency)
	assert.False(t, rows[0].InStock)
}

func TestUpsertValidation(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	_, err := svc.Upsert(ctx, storeID, UpsertPriceInput{
		ProductGTIN: "00012345678905",
		Price:       decimal.RequireFromString("-0.01"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upsert(ctx, storeID, UpsertPriceInput{
		ProductGTIN: "00012345678905",
		Price:       decimal.RequireFromString("1.00"),
		Currency:    "GBP",
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upsert(ctx, storeID, UpsertPriceInput{
		ProductGTIN: "99999999999990",
		Price:       decimal.RequireFromString("1.00"),
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Upsert(ctx, uuid.New(), UpsertPriceInput{
		ProductGTIN: "00012345678905",
		Price:       decimal.RequireFromString("1.00"),
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestBulkUpsertValidatesBeforeAnyWrite(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	_, err := svc.BulkUpsert(ctx, storeID, BulkUpsertInput{Prices: []UpsertPriceInput{
		{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.00")},
		{ProductGTIN: "99999999999990", Price: decimal.RequireFromString("3.00")},
	}})
	requireCode(t, err, pkgerrors.CodeValidation)

	rows, err := svc.ListByStore(ctx, storeID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows, "a rejected batch must write nothing")
}

func TestBulkUpsertRejectsDuplicateGTIN(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	_, err := svc.BulkUpsert(ctx, storeID, BulkUpsertInput{Prices: []UpsertPriceInput{
		{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.00")},
		{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.50")},
	}})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestBulkUpsertWritesBatch(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905", "00012345678912")

	out, err := svc.BulkUpsert(ctx, storeID, BulkUpsertInput{Prices: []UpsertPriceInput{
		{ProductGTIN: "00012345678912", Price: decimal.RequireFromString("4.25")},
		{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.00")},
	}})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	rows, err := svc.ListByStore(ctx, storeID, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Owner listing is GTIN-ordered.
	assert.Equal(t, "00012345678905", rows[0].ProductGTIN)
	assert.Equal(t, "00012345678912", rows[1].ProductGTIN)
}

func TestGetPricesOmitsUncarriedGTINs(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	_, err := svc.Upsert(ctx, storeID, UpsertPriceInput{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.00")})
	require.NoError(t, err)

	quotes, err := svc.GetPrices(ctx, storeID, []string{"00012345678905", "99999999999990"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)

	quote, ok := quotes["00012345678905"]
	require.True(t, ok)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("2.00")))

	_, carried := quotes["99999999999990"]
	assert.False(t, carried, "uncarried gtin must be absent, not zero-priced")
}

func TestAveragesAcrossStores(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeA := seedPriceStore(t, db)
	storeB := seedPriceStore(t, db)
	// The averages query spans every store, so use a gtin private to this test.
	seedCatalog(t, db, "00055555555558")

	_, err := svc.Upsert(ctx, storeA, UpsertPriceInput{ProductGTIN: "00055555555558", Price: decimal.RequireFromString("1.00")})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, storeB, UpsertPriceInput{ProductGTIN: "00055555555558", Price: decimal.RequireFromString("3.00")})
	require.NoError(t, err)

	avgs, err := svc.Averages(ctx, []string{"00055555555558", "99999999999990"})
	require.NoError(t, err)
	require.Len(t, avgs, 1, "gtins no store carries are omitted")
	assert.Equal(t, "00055555555558", avgs[0].ProductGTIN)
	assert.True(t, avgs[0].AvgPrice.Equal(decimal.RequireFromString("2")), "avg = %s", avgs[0].AvgPrice)
}

func TestDeletePrice(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905")

	err := svc.Delete(ctx, storeID, "00012345678905")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Upsert(ctx, storeID, UpsertPriceInput{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("2.00")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, storeID, "00012345678905"))

	rows, err := svc.ListByStore(ctx, storeID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListCandidatesJoinsCatalog(t *testing.T) {
	db := setupPricesTestDB(t)
	svc := newPriceService(t, db)
	repo := NewRepository(db)
	ctx := context.Background()
	storeID := seedPriceStore(t, db)
	seedCatalog(t, db, "00012345678905", "00012345678912")

	_, err := svc.Upsert(ctx, storeID, UpsertPriceInput{ProductGTIN: "00012345678912", Price: decimal.RequireFromString("5.00")})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, storeID, UpsertPriceInput{ProductGTIN: "00012345678905", Price: decimal.RequireFromString("1.50")})
	require.NoError(t, err)

	rows, err := repo.ListCandidates(ctx, storeID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Cheapest first, with the catalog description joined in.
	assert.Equal(t, "00012345678905", rows[0].ProductGTIN)
	assert.Equal(t, "item 00012345678905", rows[0].Description)
	assert.True(t, rows[0].InStock)

	limited, err := repo.ListCandidates(ctx, storeID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "00012345678905", limited[0].ProductGTIN)
}
