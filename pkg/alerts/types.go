package alerts

import (
	"context"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// Notifier delivers a notification to an external system. The engine
// dispatches only notifications that newly appeared in a cycle, so external
// channels are not re-paged for conditions that merely persist.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers a notification. Implementations must be safe for
	// concurrent use.
	Send(ctx context.Context, n model.Notification) error
}
