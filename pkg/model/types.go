package model

import "time"

// Type classifies a notification by the business concern that raised it.
type Type string

const (
	TypeLowStock     Type = "low_stock"
	TypeHighChurn    Type = "high_churn"
	TypeSalesAnomaly Type = "sales_anomaly"
	TypeNewReview    Type = "new_review"
	TypeSystem       Type = "system"
)

// Severity indicates how urgent a notification is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering weight of a severity. Higher is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Notification is a single operational alert derived from a snapshot.
//
// IDs are stable across computation cycles: a repeat of the same condition
// (same product low on stock, same anomalous day) produces the same ID, so
// read state can be carried forward when the list is recomputed.
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Severity  Severity       `json:"severity"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Read      bool           `json:"read"`
	ActionURL string         `json:"action_url,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// SaleStatus is the lifecycle state of an order as reported by the storefront.
type SaleStatus string

const (
	StatusCompleted SaleStatus = "COMPLETED"
	StatusCancelled SaleStatus = "CANCELLED"
	StatusRefunded  SaleStatus = "REFUNDED"
	StatusPending   SaleStatus = "PENDING"
)

// Product is the slice of a storefront product the alerting engine cares
// about. Stock is nil when the source did not report a quantity; such
// products are excluded from stock analysis.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock *int64 `json:"stock,omitempty"`
}

// Sale is a single order record.
type Sale struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	DateOfSale  time.Time  `json:"date_of_sale"`
	Status      SaleStatus `json:"status"`
	TotalAmount float64    `json:"total_amount"`
}

// User is a storefront customer. Only the ID is required; sources may carry
// more fields but the engine ignores them.
type User struct {
	ID int64 `json:"id"`
}

// Snapshot bundles the three source collections read at the start of one
// computation cycle. It is built once per cycle, never mutated, and discarded
// after the cycle's notifications are produced.
type Snapshot struct {
	Products  []Product
	Sales     []Sale
	Users     []User
	FetchedAt time.Time
}
