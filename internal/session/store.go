// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"team-builder/internal/common/logger"
	"team-builder/internal/common/metrics"
	"team-builder/internal/models"
)

var (
	ErrSessionNotFound    = errors.New("SESSION_NOT_FOUND")
	ErrSessionStoreFailed = errors.New("SESSION_STORE_FAILED")
)

// Store keeps sessions in Redis as JSON blobs with a rolling TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "session-store"}),
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create allocates a fresh session. The generated id is also used as the
// Bedrock session id, so conversation context follows it.
func (s *Store) Create(ctx context.Context) (*models.Session, error) {
	now := time.Now().UTC()
	sess := &models.Session{
		ID:        uuid.New().String(),
		Messages:  []models.Message{},
		Citations: []models.Citation{},
		Trace:     []models.TraceEvent{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	s.refreshActiveGauge(ctx)
	s.logger.Info("session created", map[string]interface{}{"sessionId": sess.ID})
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// A miss may mean the TTL fired; recount so the gauge follows.
			s.refreshActiveGauge(ctx)
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", ErrSessionStoreFailed, err)
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}
	if n > 0 {
		s.logger.Info("session deleted", map[string]interface{}{"sessionId": id})
	}
	s.refreshActiveGauge(ctx)
	return nil
}

// refreshActiveGauge recounts session keys so the gauge tracks TTL expiry
// as well as explicit deletes.
func (s *Store) refreshActiveGauge(ctx context.Context) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKey("*"), 100).Result()
		if err != nil {
			s.logger.Warn("session recount failed", map[string]interface{}{"error": err.Error()})
			return
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	metrics.SessionsActive.Set(float64(count))
}

// AppendResult records one generation round trip: the prompt sent, the
// completion received, and the citation and trace events from the stream.
func (s *Store) AppendResult(ctx context.Context, id, prompt, completion string, citations []models.Citation, trace []models.TraceEvent) (*models.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess.Messages = append(sess.Messages,
		models.Message{Role: models.MessageRoleUser, Content: prompt, Timestamp: now},
		models.Message{Role: models.MessageRoleAgent, Content: completion, Timestamp: now},
	)
	sess.Citations = append(sess.Citations, citations...)
	sess.Trace = append(sess.Trace, trace...)
	sess.UpdatedAt = now

	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) save(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", ErrSessionStoreFailed, err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStoreFailed, err)
	}
	return nil
}
