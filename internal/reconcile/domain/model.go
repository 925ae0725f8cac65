package domain

import (
	"context"
	"errors"

	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
)

// ErrDeliveryInFlight means another delivery of the same transaction holds
// the reconciliation lock. Surfaced as a non-success response so the
// gateway re-delivers once the holder finishes.
var ErrDeliveryInFlight = errors.New("transaction_reconciliation_in_progress")

// Result describes what the reconciler did for one validated, successful
// notification. Exactly one of Updated, Created, or HandledByWebhook is set.
type Result struct {
	OrderID          int64
	Updated          bool
	Created          bool
	HandledByWebhook bool
	WCStatus         string
}

type Service interface {
	Reconcile(ctx context.Context, n *notifdomain.Notification, raw map[string]any) (Result, error)
}

// Checkout forwards a notification to the companion checkout webhook, which
// may hold richer cart data POSTed separately by the checkout page. It
// reports whether that webhook already created or updated the order.
type Checkout interface {
	Forward(ctx context.Context, n *notifdomain.Notification, raw map[string]any) (bool, error)
}
