package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/andeanlabs/izibridge/internal/commerce/woocommerce"
	notifdomain "github.com/andeanlabs/izibridge/internal/notification/domain"
	"github.com/andeanlabs/izibridge/internal/ratelimit"
	reconciledomain "github.com/andeanlabs/izibridge/internal/reconcile/domain"
	"github.com/andeanlabs/izibridge/internal/status"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	paymentMethod      = "izipay"
	paymentMethodTitle = "Izipay"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Mapper   *status.Mapper
	Commerce *woocommerce.Client
	Checkout reconciledomain.Checkout
	Repo     notifdomain.Repository
	Limiter  ratelimit.Limiter `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	mapper   *status.Mapper
	commerce *woocommerce.Client
	checkout reconciledomain.Checkout
	repo     notifdomain.Repository
	limiter  ratelimit.Limiter
}

func NewService(p Params) reconciledomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reconcile.service"),
		genID:    p.GenID,
		mapper:   p.Mapper,
		commerce: p.Commerce,
		checkout: p.Checkout,
		repo:     p.Repo,
		limiter:  p.Limiter,
	}
}

// Reconcile brings the commerce backend's order state into agreement with a
// validated, successful payment notification: update the order named by the
// notification if it exists, otherwise create one from whatever cart data
// can be recovered. Delivery is at-least-once, so the update path must be
// idempotent per status value; create-path duplicates are only mitigated by
// the notification log's unique transaction key and a best-effort lock.
func (s *Service) Reconcile(ctx context.Context, n *notifdomain.Notification, raw map[string]any) (reconciledomain.Result, error) {
	now := time.Now().UTC()
	stored := s.recordNotification(ctx, n, raw, now)

	if s.limiter != nil && s.limiter.Enabled() && n.TransactionID != "" {
		token, acquired, err := s.limiter.TryLockTransaction(ctx, n.TransactionID)
		switch {
		case err != nil:
			// Redis being down must not block payment confirmations.
			s.log.Warn("transaction lock unavailable", zap.Error(err))
		case !acquired:
			// Another delivery of this transaction is mid-reconcile. Bail
			// out instead of racing it; the gateway re-delivers.
			s.log.Info("concurrent delivery rejected",
				zap.String("transaction_id", n.TransactionID),
			)
			return reconciledomain.Result{}, reconciledomain.ErrDeliveryInFlight
		default:
			defer func() {
				_ = s.limiter.ReleaseTransaction(ctx, n.TransactionID, token)
			}()
		}
	}

	result, err := s.reconcile(ctx, n, raw, now)
	if err != nil {
		return reconciledomain.Result{}, err
	}

	if stored != nil {
		s.markProcessed(ctx, stored, result)
	}
	return result, nil
}

func (s *Service) reconcile(ctx context.Context, n *notifdomain.Notification, raw map[string]any, now time.Time) (reconciledomain.Result, error) {
	wcStatus := s.mapper.OrderStatus(n.Status)

	if n.OrderID != 0 {
		order, err := s.commerce.GetOrder(ctx, n.OrderID)
		if err != nil {
			// Swallowed: a failed lookup means "no existing order" and
			// falls through to creation.
			s.log.Warn("order lookup failed",
				zap.Int64("order_id", n.OrderID),
				zap.Error(err),
			)
		}
		if order != nil {
			if _, err := s.commerce.UpdateOrder(ctx, order.ID, woocommerce.OrderUpdate{
				Status:             wcStatus,
				SetPaid:            true,
				PaymentMethod:      paymentMethod,
				PaymentMethodTitle: paymentMethodTitle,
				MetaData:           updateMetaData(n, now),
			}); err != nil {
				return reconciledomain.Result{}, err
			}
			s.log.Info("order updated",
				zap.Int64("order_id", order.ID),
				zap.String("transaction_id", n.TransactionID),
				zap.String("wc_status", wcStatus),
			)
			return reconciledomain.Result{OrderID: order.ID, Updated: true, WCStatus: wcStatus}, nil
		}
	}

	items := buildLineItems(n.CartItems)
	if len(items) == 0 {
		handled, err := s.checkout.Forward(ctx, n, raw)
		if err != nil {
			// Swallowed: the webhook is a best-effort data source.
			s.log.Warn("checkout webhook fallback failed", zap.Error(err))
		}
		if handled {
			s.log.Info("order handled by checkout webhook",
				zap.String("transaction_id", n.TransactionID),
			)
			return reconciledomain.Result{HandledByWebhook: true, WCStatus: wcStatus}, nil
		}
		items = []woocommerce.LineItem{syntheticLineItem(n.Amount)}
	}

	billing, shipping := DeriveBillingShipping(n.CustomerName, n.CustomerEmail, n.Shipping)
	created, err := s.commerce.CreateOrder(ctx, woocommerce.OrderCreate{
		Status:             wcStatus,
		SetPaid:            true,
		PaymentMethod:      paymentMethod,
		PaymentMethodTitle: paymentMethodTitle,
		Billing:            billing,
		Shipping:           shipping,
		LineItems:          items,
		MetaData:           createMetaData(n, now),
	})
	if err != nil {
		return reconciledomain.Result{}, err
	}
	s.log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("transaction_id", n.TransactionID),
		zap.String("wc_status", wcStatus),
	)
	return reconciledomain.Result{OrderID: created.ID, Created: true, WCStatus: wcStatus}, nil
}

// recordNotification appends the notification to the audit log. On a
// duplicate delivery the existing record's order id is adopted so the
// pipeline converges on the update path instead of creating a second order.
// Log failures never block reconciliation.
func (s *Service) recordNotification(ctx context.Context, n *notifdomain.Notification, raw map[string]any, now time.Time) *notifdomain.Record {
	if n.TransactionID == "" {
		return nil
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		payload = []byte("{}")
	}
	record := &notifdomain.Record{
		ID:            s.genID.Generate(),
		Provider:      notifdomain.Provider,
		TransactionID: n.TransactionID,
		Status:        n.Status,
		OrderID:       n.OrderID,
		Payload:       payload,
		ReceivedAt:    now,
	}

	inserted, err := s.repo.Insert(ctx, s.db, record)
	if err != nil {
		s.log.Warn("notification log insert failed", zap.Error(err))
		return nil
	}
	if inserted {
		return record
	}

	existing, err := s.repo.Find(ctx, s.db, notifdomain.Provider, n.TransactionID)
	if err != nil {
		s.log.Warn("notification log lookup failed", zap.Error(err))
		return nil
	}
	if existing == nil {
		return nil
	}
	if n.OrderID == 0 && existing.OrderID != 0 {
		n.OrderID = existing.OrderID
	}
	s.log.Info("duplicate notification delivery",
		zap.String("transaction_id", n.TransactionID),
		zap.Int64("order_id", existing.OrderID),
	)
	return existing
}

func (s *Service) markProcessed(ctx context.Context, stored *notifdomain.Record, result reconciledomain.Result) {
	encoded, err := json.Marshal(result)
	if err != nil {
		encoded = []byte("{}")
	}
	if err := s.repo.MarkProcessed(ctx, s.db, stored.ID, result.OrderID, encoded, time.Now().UTC()); err != nil {
		s.log.Warn("notification log update failed", zap.Error(err))
	}
}

func updateMetaData(n *notifdomain.Notification, now time.Time) []woocommerce.MetaData {
	return []woocommerce.MetaData{
		{Key: "_izipay_transaction_id", Value: n.TransactionID},
		{Key: "_izipay_status", Value: n.Status},
		{Key: "_izipay_received_at", Value: now.Format(time.RFC3339)},
	}
}

func createMetaData(n *notifdomain.Notification, now time.Time) []woocommerce.MetaData {
	meta := updateMetaData(n, now)
	if n.CustomerEmail != "" {
		meta = append(meta, woocommerce.MetaData{Key: "_izipay_customer_email", Value: n.CustomerEmail})
	}
	return meta
}
