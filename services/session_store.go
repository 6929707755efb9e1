package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	config "github.com/masarhq/masar_backend/configs"
	"github.com/redis/go-redis/v9"
)

// Enrollment sessions are short-lived wizard state, scoped to one browsing
// session the way the original client kept them in a single tab. They live in
// redis with a TTL rather than in the database: an abandoned wizard simply
// expires, and no locking is shared between two concurrent sessions for the
// same course.
const sessionTTL = 2 * time.Hour

const sessionKeyPrefix = "masar:session:"

var ErrSessionNotFound = errors.New("enrollment session not found or expired")

type SessionStore struct {
	rdb *redis.Client
}

var Sessions *SessionStore

func InitSessionStore() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})
	Sessions = &SessionStore{rdb: rdb}
	log.Println("✅ Session store initialized on", addr)
}

func (s *SessionStore) Save(ctx context.Context, sess *EnrollmentSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, payload, sessionTTL).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (*EnrollmentSession, error) {
	payload, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess EnrollmentSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}
