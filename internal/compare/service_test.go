package compare

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/basketwise/basketwise-backend/internal/prices"
	"github.com/basketwise/basketwise-backend/pkg/db/models"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

type fakePriceSource struct {
	mu     sync.Mutex
	calls  int32
	quotes map[uuid.UUID]map[string]prices.PriceQuote
	errFor map[uuid.UUID]error
}

func (f *fakePriceSource) GetPrices(_ context.Context, storeID uuid.UUID, _ []string) (map[string]prices.PriceQuote, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errFor[storeID]; ok {
		return nil, err
	}
	return f.quotes[storeID], nil
}

type fakeListSource struct {
	list *models.ShoppingList
	err  error
}

func (f *fakeListSource) FindWithItems(context.Context, uuid.UUID) (*models.ShoppingList, error) {
	return f.list, f.err
}

type fakeStoreSource struct {
	stores []models.Store
	err    error
}

func (f *fakeStoreSource) FindByIDs(context.Context, []uuid.UUID) ([]models.Store, error) {
	return f.stores, f.err
}

func newTestStores(names ...string) ([]models.Store, []uuid.UUID) {
	out := make([]models.Store, 0, len(names))
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id := uuid.New()
		out = append(out, models.Store{ID: id, Name: name})
		ids = append(ids, id)
	}
	return out, ids
}

func newCompareService(t *testing.T, priceSrc PriceSource, listSrc ListSource, storeSrc StoreSource) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Prices:    priceSrc,
		Lists:     listSrc,
		Stores:    storeSrc,
		MaxStores: 5,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func ownedList(userID uuid.UUID, gtins ...string) *models.ShoppingList {
	list := &models.ShoppingList{ID: uuid.New(), UserID: userID, Name: "weekly"}
	for _, gtin := range gtins {
		list.Items = append(list.Items, models.ShoppingListItem{ProductGTIN: gtin, Quantity: 1})
	}
	return list
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	return typed.Code()
}

func TestCompareValidatesBeforeAnyLookup(t *testing.T) {
	userID := uuid.New()
	priceSrc := &fakePriceSource{}
	listSrc := &fakeListSource{list: ownedList(userID, "00012345678905")}

	cases := []struct {
		name     string
		storeIDs []uuid.UUID
	}{
		{"empty", nil},
		{"nil id", []uuid.UUID{uuid.Nil}},
		{"duplicate", func() []uuid.UUID { id := uuid.New(); return []uuid.UUID{id, id} }()},
		{"too many", []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newCompareService(t, priceSrc, listSrc, &fakeStoreSource{})
			_, err := svc.Compare(context.Background(), userID, CompareInput{ListID: listSrc.list.ID, StoreIDs: tc.storeIDs})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code := codeOf(t, err); code != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want %s", code, pkgerrors.CodeValidation)
			}
		})
	}

	if got := atomic.LoadInt32(&priceSrc.calls); got != 0 {
		t.Fatalf("price lookups ran before validation passed: %d calls", got)
	}
}

func TestCompareUnknownStoreFailsBeforeLookup(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Alpha")
	priceSrc := &fakePriceSource{}
	listSrc := &fakeListSource{list: ownedList(userID, "00012345678905")}
	storeSrc := &fakeStoreSource{stores: stores}

	svc := newCompareService(t, priceSrc, listSrc, storeSrc)

	unknown := uuid.New()
	_, err := svc.Compare(context.Background(), userID, CompareInput{
		ListID:   listSrc.list.ID,
		StoreIDs: []uuid.UUID{ids[0], unknown},
	})
	if err == nil {
		t.Fatal("expected error for unknown store")
	}
	if code := codeOf(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want %s", code, pkgerrors.CodeNotFound)
	}
	if got := atomic.LoadInt32(&priceSrc.calls); got != 0 {
		t.Fatalf("price lookups ran despite unknown store: %d calls", got)
	}
}

func TestCompareForeignListReadsAsNotFound(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()
	stores, ids := newTestStores("Alpha")
	listSrc := &fakeListSource{list: ownedList(owner, "00012345678905")}

	svc := newCompareService(t, &fakePriceSource{}, listSrc, &fakeStoreSource{stores: stores})

	_, err := svc.Compare(context.Background(), intruder, CompareInput{
		ListID:   listSrc.list.ID,
		StoreIDs: ids,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := codeOf(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want %s (ownership must not leak as forbidden)", code, pkgerrors.CodeNotFound)
	}
}

func TestCompareMissingListNotFound(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Alpha")
	listSrc := &fakeListSource{err: gorm.ErrRecordNotFound}

	svc := newCompareService(t, &fakePriceSource{}, listSrc, &fakeStoreSource{stores: stores})

	_, err := svc.Compare(context.Background(), userID, CompareInput{ListID: uuid.New(), StoreIDs: ids})
	if code := codeOf(t, err); code != pkgerrors.CodeNotFound {
		t.Fatalf("code = %s, want %s", code, pkgerrors.CodeNotFound)
	}
}

func TestCompareEmptyListRejected(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Alpha")
	listSrc := &fakeListSource{list: ownedList(userID)}

	svc := newCompareService(t, &fakePriceSource{}, listSrc, &fakeStoreSource{stores: stores})

	_, err := svc.Compare(context.Background(), userID, CompareInput{ListID: listSrc.list.ID, StoreIDs: ids})
	if code := codeOf(t, err); code != pkgerrors.CodeValidation {
		t.Fatalf("code = %s, want %s", code, pkgerrors.CodeValidation)
	}
}

func TestCompareOneFailedLookupFailsAll(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Alpha", "Bravo", "Charlie")
	listSrc := &fakeListSource{list: ownedList(userID, "00012345678905")}

	priceSrc := &fakePriceSource{
		quotes: map[uuid.UUID]map[string]prices.PriceQuote{
			ids[0]: {"00012345678905": quote("00012345678905", "1.00", true)},
			ids[2]: {"00012345678905": quote("00012345678905", "2.00", true)},
		},
		errFor: map[uuid.UUID]error{ids[1]: errors.New("connection reset")},
	}

	svc := newCompareService(t, priceSrc, listSrc, &fakeStoreSource{stores: stores})

	_, err := svc.Compare(context.Background(), userID, CompareInput{ListID: listSrc.list.ID, StoreIDs: ids})
	if err == nil {
		t.Fatal("expected failure when one store lookup fails")
	}
	if code := codeOf(t, err); code != pkgerrors.CodeDependency {
		t.Fatalf("code = %s, want %s", code, pkgerrors.CodeDependency)
	}
}

func TestCompareRanksCheapestInStockFirst(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Pricey", "Cheap", "Middle")
	listSrc := &fakeListSource{list: ownedList(userID, "00012345678905")}

	priceSrc := &fakePriceSource{
		quotes: map[uuid.UUID]map[string]prices.PriceQuote{
			ids[0]: {"00012345678905": quote("00012345678905", "5.00", true)},
			ids[1]: {"00012345678905": quote("00012345678905", "1.00", true)},
			ids[2]: {"00012345678905": quote("00012345678905", "3.00", true)},
		},
	}

	svc := newCompareService(t, priceSrc, listSrc, &fakeStoreSource{stores: stores})

	result, err := svc.Compare(context.Background(), userID, CompareInput{ListID: listSrc.list.ID, StoreIDs: ids})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	wantOrder := []string{"Cheap", "Middle", "Pricey"}
	for i, want := range wantOrder {
		if result.Results[i].StoreName != want {
			t.Fatalf("rank %d = %s, want %s", i+1, result.Results[i].StoreName, want)
		}
		if result.Results[i].Rank != i+1 {
			t.Fatalf("Rank field = %d, want %d", result.Results[i].Rank, i+1)
		}
	}
}

func TestCompareRanksByInStockTotalNotAllItems(t *testing.T) {
	userID := uuid.New()
	stores, ids := newTestStores("Alpha", "Bravo")
	listSrc := &fakeListSource{list: &models.ShoppingList{ID: uuid.New(), UserID: userID, Name: "weekly", Items: []models.ShoppingListItem{
		{ProductGTIN: "00012345678905", Quantity: 2},
		{ProductGTIN: "00012345678912", Quantity: 1},
	}}}

	// Alpha does not carry the second item; Bravo carries it out of stock.
	priceSrc := &fakePriceSource{
		quotes: map[uuid.UUID]map[string]prices.PriceQuote{
			ids[0]: {
				"00012345678905": quote("00012345678905", "5.00", true),
			},
			ids[1]: {
				"00012345678905": quote("00012345678905", "4.00", true),
				"00012345678912": quote("00012345678912", "3.00", false),
			},
		},
	}

	svc := newCompareService(t, priceSrc, listSrc, &fakeStoreSource{stores: stores})

	result, err := svc.Compare(context.Background(), userID, CompareInput{ListID: listSrc.list.ID, StoreIDs: ids})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	// Bravo's in-stock total (8.00) beats Alpha's (10.00) even though Bravo's
	// all-items total (11.00) is higher.
	if result.Results[0].StoreName != "Bravo" {
		t.Fatalf("rank 1 = %s, want Bravo", result.Results[0].StoreName)
	}
	if got := result.Results[0].TotalInStock.String(); got != "8" {
		t.Fatalf("Bravo TotalInStock = %s, want 8", got)
	}
	if got := result.Results[0].TotalAll.String(); got != "11" {
		t.Fatalf("Bravo TotalAll = %s, want 11", got)
	}
	if got := result.Results[1].TotalAll.String(); got != "10" {
		t.Fatalf("Alpha TotalAll = %s, want 10", got)
	}
	if got := result.Results[1].TotalInStock.String(); got != "10" {
		t.Fatalf("Alpha TotalInStock = %s, want 10", got)
	}
}

func TestCompareTieBreaksAreDeterministic(t *testing.T) {
	// Equal in-stock totals: the store with the lower all-items total wins;
	// a full tie falls back to name, then ID.
	results := []StoreResult{
		{StoreID: uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"), StoreName: "zeta", Tally: Tally{
			TotalAll:     decimal.RequireFromString("10.00"),
			TotalInStock: decimal.RequireFromString("5.00"),
		}},
		{StoreID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), StoreName: "Alpha", Tally: Tally{
			TotalAll:     decimal.RequireFromString("10.00"),
			TotalInStock: decimal.RequireFromString("5.00"),
		}},
		{StoreID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), StoreName: "beta", Tally: Tally{
			TotalAll:     decimal.RequireFromString("8.00"),
			TotalInStock: decimal.RequireFromString("5.00"),
		}},
	}

	rank(results)

	wantOrder := []string{"beta", "Alpha", "zeta"}
	for i, want := range wantOrder {
		if results[i].StoreName != want {
			t.Fatalf("rank %d = %s, want %s", i+1, results[i].StoreName, want)
		}
	}
}

func TestRankNameComparisonIsCaseInsensitive(t *testing.T) {
	same := Tally{TotalAll: decimal.RequireFromString("1.00"), TotalInStock: decimal.RequireFromString("1.00")}
	results := []StoreResult{
		{StoreID: uuid.New(), StoreName: "bravo", Tally: same},
		{StoreID: uuid.New(), StoreName: "Alpha", Tally: same},
	}

	rank(results)

	if results[0].StoreName != "Alpha" {
		t.Fatalf("rank 1 = %s, want Alpha", results[0].StoreName)
	}
}
