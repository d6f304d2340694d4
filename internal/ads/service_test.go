package ads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

const sqliteUUID = `(lower(hex(randomblob(4))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(2))) || '-' || lower(hex(randomblob(6))))`

func setupAdsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
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
		`CREATE TABLE IF NOT EXISTS ads (
  id TEXT PRIMARY KEY DEFAULT ` + sqliteUUID + `,
  title TEXT NOT NULL,
  image_url TEXT NOT NULL,
  target_url TEXT,
  placement TEXT NOT NULL,
  store_id TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  starts_at DATETIME,
  ends_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newAdService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(db),
		StoreRepo: stores.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func expectCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNilf(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, want, typed.Code())
}

func TestAdCreateDefaultsToActive(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)

	got, err := svc.Create(context.Background(), CreateAdInput{
		Title:     "  Summer Sale  ",
		ImageURL:  "https://cdn.example.com/summer.png",
		Placement: "banner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer Sale", got.Title)
	assert.True(t, got.Active)
}

func TestAdCreateValidation(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAdInput{Title: "x", ImageURL: "https://a.example/a.png", Placement: "popup"})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateAdInput{Title: "   ", ImageURL: "https://a.example/a.png", Placement: "banner"})
	expectCode(t, err, pkgerrors.CodeValidation)

	starts := time.Now().Add(24 * time.Hour)
	ends := starts.Add(-time.Hour)
	_, err = svc.Create(ctx, CreateAdInput{
		Title:     "backwards window",
		ImageURL:  "https://a.example/a.png",
		Placement: "banner",
		StartsAt:  &starts,
		EndsAt:    &ends,
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	ghost := uuid.New()
	_, err = svc.Create(ctx, CreateAdInput{
		Title:     "ghost store",
		ImageURL:  "https://a.example/a.png",
		Placement: "banner",
		StoreID:   &ghost,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func seedAd(t *testing.T, db *gorm.DB, placement string, active bool, startsAt, endsAt *time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, NewRepository(db).Create(context.Background(), &models.Ad{
		ID:        id,
		Title:     "seeded " + id.String()[:8],
		ImageURL:  "https://cdn.example.com/" + id.String()[:8] + ".png",
		Placement: enums.AdPlacement(placement),
		Active:    active,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}))
	return id
}

func TestAdListActiveHonorsWindowAndFlag(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)

	past := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Hour)
	future := time.Now().Add(48 * time.Hour)

	live := seedAd(t, db, "sidebar", true, &recent, &future)
	open := seedAd(t, db, "sidebar", true, nil, nil)
	expired := seedAd(t, db, "sidebar", true, &past, &recent)
	upcoming := seedAd(t, db, "sidebar", true, &future, nil)
	paused := seedAd(t, db, "sidebar", false, nil, nil)
	otherSlot := seedAd(t, db, "banner", true, nil, nil)

	active, err := svc.ListActive(context.Background(), "sidebar")
	require.NoError(t, err)

	served := make(map[uuid.UUID]bool, len(active))
	for _, ad := range active {
		served[ad.ID] = true
	}
	assert.True(t, served[live])
	assert.True(t, served[open])
	assert.False(t, served[expired])
	assert.False(t, served[upcoming])
	assert.False(t, served[paused])
	assert.False(t, served[otherSlot])
}

func TestAdListActiveRejectsUnknownPlacement(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)

	_, err := svc.ListActive(context.Background(), "interstitial")
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestAdUpdateWindowStaysOrdered(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)
	ctx := context.Background()

	starts := time.Now().Add(time.Hour)
	adID := seedAd(t, db, "banner", true, &starts, nil)

	before := starts.Add(-time.Minute)
	_, err := svc.Update(ctx, adID, UpdateAdInput{EndsAt: &before})
	expectCode(t, err, pkgerrors.CodeValidation)

	after := starts.Add(time.Hour)
	got, err := svc.Update(ctx, adID, UpdateAdInput{EndsAt: &after})
	require.NoError(t, err)
	require.NotNil(t, got.EndsAt)
}

func TestAdDelete(t *testing.T) {
	db := setupAdsTestDB(t)
	svc := newAdService(t, db)
	ctx := context.Background()

	err := svc.Delete(ctx, uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)

	adID := seedAd(t, db, "banner", true, nil, nil)

	require.NoError(t, svc.Delete(ctx, adID))

	_, err = svc.Update(ctx, adID, UpdateAdInput{})
	expectCode(t, err, pkgerrors.CodeNotFound)
}
