package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Record is the persisted shape of a session: the four fields that live and
// die together. User and Profile stay raw JSON at this layer; the manager
// owns parsing.
type Record struct {
	AccessToken  string
	RefreshToken string
	User         []byte
	Profile      []byte
}

// Store persists session records keyed by session ID. A zero ttl on Save
// keeps the existing expiry.
type Store interface {
	Load(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, id string, rec *Record, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session in a hash with the record fields, expiring
// with the refresh token.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string { return "portal:session:" + id }

func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return &Record{
		AccessToken:  fields["access_token"],
		RefreshToken: fields["refresh_token"],
		User:         []byte(fields["user"]),
		Profile:      []byte(fields["profile"]),
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, rec *Record, ttl time.Duration) error {
	key := sessionKey(id)
	err := s.client.HSet(ctx, key,
		"access_token", rec.AccessToken,
		"refresh_token", rec.RefreshToken,
		"user", string(rec.User),
		"profile", string(rec.Profile),
	).Err()
	if err != nil {
		return err
	}
	if ttl > 0 {
		return s.client.Expire(ctx, key, ttl).Err()
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// MemoryStore is the in-process fake used by tests and single-node setups
// without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*memoryRecord)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.records, id)
		return nil, ErrNotFound
	}
	rec := entry.rec
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.records[id]
	if !ok {
		entry = &memoryRecord{}
		s.records[id] = entry
	}
	entry.rec = *rec
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
