package stock

import (
	"context"
	"sync"

	"resmall-api-server/erp"
	"resmall-api-server/models"
)

// fakeItems is an in-memory ItemStore. Safe under ExecuteAll's fan-out.
type fakeItems struct {
	mu      sync.Mutex
	rows    map[string]*models.Item
	updates []string
}

func newFakeItems(rows ...models.Item) *fakeItems {
	f := &fakeItems{rows: make(map[string]*models.Item)}
	for i := range rows {
		f.rows[rows[i].ID] = &rows[i]
	}
	return f
}

func (f *fakeItems) UpdateQuantity(_ context.Context, id string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id)
	if row, ok := f.rows[id]; ok {
		row.Quantity = quantity
	}
	return nil
}

func (f *fakeItems) Find(_ context.Context, id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

// fakeOptions is an in-memory OptionStore.
type fakeOptions struct {
	mu      sync.Mutex
	rows    map[string]*models.ItemOption
	order   []string
	updates []string
}

func newFakeOptions(rows ...models.ItemOption) *fakeOptions {
	f := &fakeOptions{rows: make(map[string]*models.ItemOption)}
	for i := range rows {
		f.rows[rows[i].ID] = &rows[i]
		f.order = append(f.order, rows[i].ID)
	}
	return f
}

func (f *fakeOptions) UpdateQuantity(_ context.Context, optionID, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, optionID)
	if row, ok := f.rows[optionID]; ok && row.ItemID == itemID {
		row.Quantity = quantity
	}
	return nil
}

func (f *fakeOptions) Find(_ context.Context, optionID, itemID string) (*models.ItemOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[optionID]
	if !ok || row.ItemID != itemID {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeOptions) FindByItemID(_ context.Context, itemID string) ([]models.ItemOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ItemOption
	for _, id := range f.order {
		if f.rows[id].ItemID == itemID {
			out = append(out, *f.rows[id])
		}
	}
	return out, nil
}

// fakeFetcher serves canned stock records.
type fakeFetcher struct {
	all     []erp.StockRecord
	allErr  error
	byCode  map[string]*erp.StockRecord
	oneErr  error
	fetched []string
}

func (f *fakeFetcher) FetchAll(_ context.Context) ([]erp.StockRecord, error) {
	return f.all, f.allErr
}

func (f *fakeFetcher) FetchOne(_ context.Context, code string) (*erp.StockRecord, error) {
	f.fetched = append(f.fetched, code)
	if f.oneErr != nil {
		return nil, f.oneErr
	}
	return f.byCode[code], nil
}
