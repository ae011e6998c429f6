package stock

import (
	"context"

	"resmall-api-server/erp"
	"resmall-api-server/models"
)

// ItemStore is the persistence surface for top-level items.
type ItemStore interface {
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Find(ctx context.Context, id string) (*models.Item, error)
}

// OptionStore is the persistence surface for item options.
type OptionStore interface {
	UpdateQuantity(ctx context.Context, optionID, itemID string, quantity int) error
	Find(ctx context.Context, optionID, itemID string) (*models.ItemOption, error)
	FindByItemID(ctx context.Context, itemID string) ([]models.ItemOption, error)
}

// Reconciler writes a fetched stock record into the matching local row.
type Reconciler struct {
	items   ItemStore
	options OptionStore
}

func NewReconciler(items ItemStore, options OptionStore) *Reconciler {
	return &Reconciler{items: items, options: options}
}

// Apply routes the record by its code shape, updates the quantity and
// returns the post-update row. A record whose key matches no local row
// yields (nil, nil): rows are never created here, only refreshed.
func (r *Reconciler) Apply(ctx context.Context, rec erp.StockRecord) (any, error) {
	code := ParseCode(rec.Code)

	if code.Kind == KindOption {
		if err := r.options.UpdateQuantity(ctx, code.OptionID, code.ItemID, rec.Quantity); err != nil {
			return nil, err
		}
		opt, err := r.options.Find(ctx, code.OptionID, code.ItemID)
		if err != nil {
			return nil, err
		}
		if opt == nil {
			return nil, nil
		}
		return opt, nil
	}

	if err := r.items.UpdateQuantity(ctx, code.ItemID, rec.Quantity); err != nil {
		return nil, err
	}
	item, err := r.items.Find(ctx, code.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return item, nil
}
