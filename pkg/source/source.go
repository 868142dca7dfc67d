// Package source retrieves the raw storefront collections the alerting
// engine analyzes. Each source is fetched independently; a failing source
// degrades to an empty collection rather than failing the cycle.
package source

import (
	"context"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// ProductSource retrieves the current product catalog.
type ProductSource interface {
	Products(ctx context.Context) ([]model.Product, error)
}

// SaleSource retrieves the order history.
type SaleSource interface {
	Sales(ctx context.Context) ([]model.Sale, error)
}

// UserSource retrieves the customer list.
type UserSource interface {
	Users(ctx context.Context) ([]model.User, error)
}
