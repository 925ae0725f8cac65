package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andeanlabs/izibridge/internal/notification/domain"
	"github.com/andeanlabs/izibridge/internal/notification/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE payment_notifications (
		id BIGINT PRIMARY KEY,
		provider TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		status TEXT NOT NULL,
		order_id BIGINT NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		result TEXT,
		received_at TIMESTAMP NOT NULL,
		processed_at TIMESTAMP
	)`).Error)
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX ux_payment_notifications_provider_txn ON payment_notifications(provider, transaction_id)`,
	).Error)
	return db
}

func newRecord(t *testing.T, node *snowflake.Node, txn string) *domain.Record {
	t.Helper()
	return &domain.Record{
		ID:            node.Generate(),
		Provider:      domain.Provider,
		TransactionID: txn,
		Status:        "paid",
		Payload:       []byte(`{"kr_status":"paid"}`),
		ReceivedAt:    time.Now().UTC(),
	}
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	repo := repository.Provide()

	record := newRecord(t, node, "txn-1")
	inserted, err := repo.Insert(ctx, db, record)
	require.NoError(t, err)
	assert.True(t, inserted)

	found, err := repo.Find(ctx, db, domain.Provider, "txn-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, "paid", found.Status)
	assert.Nil(t, found.ProcessedAt)
}

func TestInsertDuplicateIsSkipped(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	repo := repository.Provide()

	first := newRecord(t, node, "txn-2")
	inserted, err := repo.Insert(ctx, db, first)
	require.NoError(t, err)
	require.True(t, inserted)

	second := newRecord(t, node, "txn-2")
	inserted, err = repo.Insert(ctx, db, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err := repo.Find(ctx, db, domain.Provider, "txn-2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestFindMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	found, err := repo.Find(ctx, db, domain.Provider, "nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMarkProcessed(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	repo := repository.Provide()

	record := newRecord(t, node, "txn-3")
	_, err = repo.Insert(ctx, db, record)
	require.NoError(t, err)

	processedAt := time.Now().UTC()
	require.NoError(t, repo.MarkProcessed(ctx, db, record.ID, 501, []byte(`{"order_id":501}`), processedAt))

	found, err := repo.Find(ctx, db, domain.Provider, "txn-3")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(501), found.OrderID)
	assert.NotNil(t, found.ProcessedAt)
}
