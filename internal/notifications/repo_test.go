package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/arlomendez/techstore-backend/pkg/db/models"
	"github.com/arlomendez/techstore-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  expires_at DATETIME,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, repo Repository, userID string, nt enums.NotificationType, expiresAt *time.Time) *models.Notification {
	t.Helper()

	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      nt,
		Title:     "Test",
		Message:   "test message",
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestRepositoryListFiltersExpiredToasts(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	seedNotification(t, repo, "user-1", enums.NotificationTypeCartItemAdded, &past)
	live := seedNotification(t, repo, "user-1", enums.NotificationTypeCartItemAdded, &future)
	durable := seedNotification(t, repo, "user-1", enums.NotificationTypeOrderAlert, nil)

	rows, err := repo.List(ctx, ListQuery{UserID: "user-1", Now: now})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	ids := []uuid.UUID{rows[0].ID, rows[1].ID}
	assert.Contains(t, ids, live.ID)
	assert.Contains(t, ids, durable.ID)
}

func TestRepositoryListUnreadOnly(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	read := seedNotification(t, repo, "user-1", enums.NotificationTypeOrderAlert, nil)
	unread := seedNotification(t, repo, "user-1", enums.NotificationTypeOrderAlert, nil)

	found, err := repo.MarkRead(ctx, "user-1", read.ID, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, found)

	rows, err := repo.List(ctx, ListQuery{UserID: "user-1", UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unread.ID, rows[0].ID)
}

func TestRepositoryMarkReadScopedToUser(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	n := seedNotification(t, repo, "user-1", enums.NotificationTypeOrderAlert, nil)

	found, err := repo.MarkRead(ctx, "user-2", n.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.MarkRead(ctx, "user-1", n.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, found)

	// already read
	found, err = repo.MarkRead(ctx, "user-1", n.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	ctx := context.Background()

	seedNotification(t, repo, "user-1", enums.NotificationTypeOrderAlert, nil)
	seedNotification(t, repo, "user-1", enums.NotificationTypeSystem, nil)
	seedNotification(t, repo, "user-2", enums.NotificationTypeOrderAlert, nil)

	count, err := repo.MarkAllRead(ctx, "user-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, err := repo.List(ctx, ListQuery{UserID: "user-1", UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
