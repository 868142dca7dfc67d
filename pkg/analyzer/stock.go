package analyzer

import (
	"fmt"

	"github.com/shopmetrics/sentinel/pkg/model"
	"github.com/shopmetrics/sentinel/pkg/rules"
)

// Stock classifies each product's stock level into a severity band. Products
// without a reported stock quantity are skipped.
type Stock struct {
	rules rules.StockRules
}

// NewStock creates a stock analyzer with the given thresholds.
func NewStock(r rules.StockRules) *Stock {
	return &Stock{rules: r}
}

func (a *Stock) Name() string { return "stock" }

func (a *Stock) Analyze(snap *model.Snapshot) []model.Notification {
	var out []model.Notification
	for _, p := range snap.Products {
		if p.Stock == nil {
			continue
		}
		stock := *p.Stock
		if stock >= a.rules.NoticeBelow {
			continue
		}

		severity := model.SeverityInfo
		title := "Low Stock Alert"
		switch {
		case stock <= 0:
			severity = model.SeverityCritical
			title = "Out of Stock"
		case stock < a.rules.WarnBelow:
			severity = model.SeverityWarning
		}

		out = append(out, model.Notification{
			// One entry per product; a product that stays low only updates
			// severity and message on the next cycle instead of duplicating.
			ID:        fmt.Sprintf("stock-%d", p.ID),
			Type:      model.TypeLowStock,
			Severity:  severity,
			Title:     title,
			Message:   fmt.Sprintf("%s has only %d units left", p.Name, stock),
			Timestamp: snap.FetchedAt,
			ActionURL: "/analytics/products",
			Payload:   map[string]any{"productId": p.ID, "stock": stock},
		})
	}
	return out
}
