package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// Fetcher gathers a Snapshot from the three sources concurrently. A source
// failure is logged and replaced by an empty collection for that source only;
// Fetch itself never fails, so one weak collaborator cannot suppress alerts
// derived from the healthy sources.
type Fetcher struct {
	products ProductSource
	sales    SaleSource
	users    UserSource
	logger   *slog.Logger
}

// NewFetcher creates a fetcher over the given sources.
func NewFetcher(products ProductSource, sales SaleSource, users UserSource, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		products: products,
		sales:    sales,
		users:    users,
		logger:   logger,
	}
}

// Fetch retrieves all three collections, joining once every source has either
// succeeded or failed-and-defaulted.
func (f *Fetcher) Fetch(ctx context.Context) *model.Snapshot {
	snap := &model.Snapshot{FetchedAt: time.Now().UTC()}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		products, err := f.products.Products(ctx)
		if err != nil {
			f.logger.Warn("product source failed, proceeding without products", "error", err)
			return
		}
		snap.Products = products
	}()

	go func() {
		defer wg.Done()
		sales, err := f.sales.Sales(ctx)
		if err != nil {
			f.logger.Warn("sale source failed, proceeding without sales", "error", err)
			return
		}
		snap.Sales = sales
	}()

	go func() {
		defer wg.Done()
		users, err := f.users.Users(ctx)
		if err != nil {
			f.logger.Warn("user source failed, proceeding without users", "error", err)
			return
		}
		snap.Users = users
	}()

	wg.Wait()
	return snap
}
