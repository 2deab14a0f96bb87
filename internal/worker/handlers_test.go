package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytvd/internal/crawler"
	"ytvd/internal/models"
	"ytvd/internal/test"
	"ytvd/internal/youtube"
	"ytvd/pkg/tasks"
)

// emptySource returns no videos for any subscription.
type emptySource struct{}

func (emptySource) FetchLatestFromChannel(ctx context.Context, channelID string, since time.Time) *youtube.VideoIterator {
	return youtube.NewVideoIterator(func(string) ([]models.Video, string, error) {
		return nil, "", nil
	}, 10)
}

func (emptySource) FetchLatestFromPlaylist(ctx context.Context, playlistID string, since time.Time) *youtube.VideoIterator {
	return youtube.NewVideoIterator(func(string) ([]models.Video, string, error) {
		return nil, "", nil
	}, 10)
}

func TestHandleCrawlAllSubscriptionsTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	created := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "youtube_id", "item_type", "last_checked", "created_at"}).
		AddRow(1, int64(7), "outsidexbox", "UC1", "ItemType.CHANNEL", nil, created).
		AddRow(2, int64(8), "lofi", "PL1", "ItemType.PLAYLIST", nil, created)
	mock.ExpectQuery(`SELECT \* FROM subscriptions ORDER BY id`).WillReturnRows(rows)

	enqueuer := &test.MockTaskEnqueuer{}
	handler := NewTaskHandler(enqueuer, crawler.New(emptySource{}))

	task, err := tasks.NewCrawlAllSubscriptionsTask()
	require.NoError(t, err)
	require.NoError(t, handler.HandleCrawlAllSubscriptionsTask(context.Background(), task))

	require.Len(t, enqueuer.EnqueuedTasks, 2)
	var ids []int
	for _, enqueued := range enqueuer.EnqueuedTasks {
		assert.Equal(t, tasks.TypeCrawlSubscription, enqueued.Type())
		var p tasks.CrawlSubscriptionTaskPayload
		require.NoError(t, json.Unmarshal(enqueued.Payload(), &p))
		ids = append(ids, p.SubscriptionID)
	}
	assert.Equal(t, []int{1, 2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCrawlSubscriptionTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	created := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM subscriptions WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "youtube_id", "item_type", "last_checked", "created_at"}).
			AddRow(1, int64(7), "outsidexbox", "UC1", "ItemType.CHANNEL", nil, created))
	mock.ExpectExec(`UPDATE subscriptions SET last_checked`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{}, crawler.New(emptySource{}))

	task, err := tasks.NewCrawlSubscriptionTask(1)
	require.NoError(t, err)
	require.NoError(t, handler.HandleCrawlSubscriptionTask(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCrawlSubscriptionTaskBadPayload(t *testing.T) {
	test.NewMockDB(t)

	handler := NewTaskHandler(&test.MockTaskEnqueuer{}, crawler.New(emptySource{}))
	task := asynq.NewTask(tasks.TypeCrawlSubscription, []byte("not json"))
	assert.Error(t, handler.HandleCrawlSubscriptionTask(context.Background(), task))
}

func TestHandleCrawlUserTask(t *testing.T) {
	_, mock := test.NewMockDB(t)

	created := time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at", "updated_at"}).
			AddRow(int64(7), "testuser", created, created))
	mock.ExpectQuery(`SELECT id, user_id, name, youtube_id, item_type, last_checked, created_at[\s\S]+FROM subscriptions`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "youtube_id", "item_type", "last_checked", "created_at"}))

	handler := NewTaskHandler(&test.MockTaskEnqueuer{}, crawler.New(emptySource{}))

	task, err := tasks.NewCrawlUserTask(7)
	require.NoError(t, err)
	require.NoError(t, handler.HandleCrawlUserTask(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}
