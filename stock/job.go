package stock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"resmall-api-server/erp"
)

// defaultStepDelay throttles the per-option loop of ExecuteOne so a
// single trigger cannot burn through the ERP quota.
const defaultStepDelay = time.Second

// Fetcher is the slice of the ERP client the runner needs.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]erp.StockRecord, error)
	FetchOne(ctx context.Context, code string) (*erp.StockRecord, error)
}

// Runner sequences fetch -> reconcile for manual triggers and the cron
// job. Runs are stateless; re-applying the same quantities is a no-op.
type Runner struct {
	fetcher    Fetcher
	reconciler *Reconciler
	options    OptionStore
	log        *slog.Logger

	stepDelay time.Duration
}

func NewRunner(fetcher Fetcher, reconciler *Reconciler, options OptionStore, log *slog.Logger) *Runner {
	return &Runner{
		fetcher:    fetcher,
		reconciler: reconciler,
		options:    options,
		log:        log,
		stepDelay:  defaultStepDelay,
	}
}

// ExecuteAll fetches the full positive-stock list and reconciles every
// record concurrently. The fetch happens once, up front; a failure
// there aborts the run before any row is touched.
func (r *Runner) ExecuteAll(ctx context.Context) ([]any, error) {
	log := r.log.With("action", "execute_all", "run_id", uuid.NewString())
	log.Info("stock sync started")

	records, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		log.Error("stock sync failed", "err", err)
		return nil, err
	}

	rows := make([]any, len(records))
	errs := make([]error, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec erp.StockRecord) {
			defer wg.Done()
			rows[i], errs[i] = r.reconciler.Apply(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			log.Error("stock sync failed", "err", err)
			return nil, err
		}
	}

	updated := compact(rows)
	log.Info("stock sync finished", "updated", len(updated), "rows", updated)

	return updated, nil
}

// ExecuteOne reconciles a single item and then each of its known
// option rows, strictly in sequence with a pause between ERP calls.
// The serialization is a deliberate throttle.
func (r *Runner) ExecuteOne(ctx context.Context, itemID string) ([]any, error) {
	log := r.log.With("action", "execute_one", "run_id", uuid.NewString(), "item_id", itemID)
	log.Info("stock sync started")

	updated := make([]any, 0, 1)

	rec, err := r.fetcher.FetchOne(ctx, itemID)
	if err != nil {
		log.Error("stock sync failed", "err", err)
		return nil, err
	}
	if rec != nil {
		row, err := r.reconciler.Apply(ctx, *rec)
		if err != nil {
			log.Error("stock sync failed", "err", err)
			return nil, err
		}
		if row != nil {
			updated = append(updated, row)
		}
	}

	options, err := r.options.FindByItemID(ctx, itemID)
	if err != nil {
		log.Error("stock sync failed", "err", err)
		return nil, err
	}

	for _, opt := range options {
		if err := sleepCtx(ctx, r.stepDelay); err != nil {
			return nil, err
		}

		rec, err := r.fetcher.FetchOne(ctx, opt.ID)
		if err != nil {
			log.Error("stock sync failed", "option_id", opt.ID, "err", err)
			return nil, err
		}
		if rec == nil {
			continue
		}

		row, err := r.reconciler.Apply(ctx, *rec)
		if err != nil {
			log.Error("stock sync failed", "option_id", opt.ID, "err", err)
			return nil, err
		}
		if row != nil {
			updated = append(updated, row)
		}
	}

	log.Info("stock sync finished", "updated", len(updated), "rows", updated)

	return updated, nil
}

// compact drops the nil slots left by records whose key matched no row.
func compact(rows []any) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			out = append(out, row)
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
