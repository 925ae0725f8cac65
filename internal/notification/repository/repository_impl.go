package repository

import (
	"context"
	"time"

	"github.com/andeanlabs/izibridge/internal/notification/domain"
	"github.com/andeanlabs/izibridge/pkg/db"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, conn *gorm.DB, provider string, transactionID string) (*domain.Record, error) {
	var item domain.Record
	err := conn.WithContext(ctx).Raw(
		`SELECT id, provider, transaction_id, status, order_id,
			payload, result, received_at, processed_at
		 FROM payment_notifications
		 WHERE provider = ? AND transaction_id = ?
		 LIMIT 1`,
		provider,
		transactionID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, record *domain.Record) (bool, error) {
	res := conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "transaction_id"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		// MySQL reports the conflict instead of skipping the row.
		if db.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkProcessed(ctx context.Context, conn *gorm.DB, id snowflake.ID, orderID int64, result []byte, processedAt time.Time) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE payment_notifications
		 SET order_id = ?, result = ?, processed_at = ?
		 WHERE id = ?`,
		orderID,
		result,
		processedAt,
		id,
	).Error
}
