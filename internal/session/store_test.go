package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"team-builder/internal/common/logger"
	"team-builder/internal/common/metrics"
	"team-builder/internal/models"
)

func createTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Hour, logger.NewZapAdapter(zaptest.NewLogger(t)))
	return store, mr
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.Messages)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.WithinDuration(t, sess.CreatedAt, got.CreatedAt, time.Second)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := createTestStore(t)

	_, err := store.Get(context.Background(), "nope")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestStore_AppendResult(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	citations := []models.Citation{json.RawMessage(`{"ref":"s3://stats"}`)}
	trace := []models.TraceEvent{{Phase: models.TracePhaseOrchestration, Type: "rationale", TraceID: "t1"}}

	updated, err := store.AppendResult(ctx, sess.ID, "build a team", "Team Alpha", citations, trace)
	require.NoError(t, err)

	require.Len(t, updated.Messages, 2)
	assert.Equal(t, models.MessageRoleUser, updated.Messages[0].Role)
	assert.Equal(t, "build a team", updated.Messages[0].Content)
	assert.Equal(t, models.MessageRoleAgent, updated.Messages[1].Role)
	assert.Equal(t, "Team Alpha", updated.Messages[1].Content)
	assert.Len(t, updated.Citations, 1)
	assert.Len(t, updated.Trace, 1)

	// Persisted, not just returned
	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "t1", got.Trace[0].TraceID)
}

func TestStore_AppendResult_MissingSession(t *testing.T) {
	store, _ := createTestStore(t)

	_, err := store.AppendResult(context.Background(), "nope", "p", "c", nil, nil)

	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestStore_Delete(t *testing.T) {
	store, _ := createTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))

	// Idempotent
	assert.NoError(t, store.Delete(ctx, sess.ID))
}

func TestStore_ActiveGaugeTracksExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, time.Second, logger.NewZapAdapter(zaptest.NewLogger(t)))
	ctx := context.Background()

	first, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SessionsActive))

	require.NoError(t, store.Delete(ctx, first.ID))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))

	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, first.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SessionsActive))
}

func TestStore_TTL(t *testing.T) {
	store, mr := createTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}
