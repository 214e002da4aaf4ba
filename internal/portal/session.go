package portal

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aid-portal/beneficiary_portal/internal/features"
)

var (
	// ErrSessionNotFound is returned for unknown or expired portal sessions.
	ErrSessionNotFound = errors.New("portal session not found")
	// ErrBusy is returned while another action on the same session is in flight.
	ErrBusy = errors.New("another action is in progress")
)

// Session is one visitor's pass through the portal.
type Session struct {
	ID         string
	Flags      features.Flags
	State      State
	Message    string
	NationalID string
	UpdatedAt  time.Time
}

type sessionRecord struct {
	ID         string         `json:"id"`
	Flags      features.Flags `json:"flags"`
	State      stateRecord    `json:"state"`
	Message    string         `json:"message,omitempty"`
	NationalID string         `json:"national_id,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionRecord{
		ID:         s.ID,
		Flags:      s.Flags,
		State:      encodeState(s.State),
		Message:    s.Message,
		NationalID: s.NationalID,
		UpdatedAt:  s.UpdatedAt,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	state, err := decodeState(rec.State)
	if err != nil {
		return err
	}
	*s = Session{
		ID:         rec.ID,
		Flags:      rec.Flags,
		State:      state,
		Message:    rec.Message,
		NationalID: rec.NationalID,
		UpdatedAt:  rec.UpdatedAt,
	}
	return nil
}

// Step returns the current step.
func (s Session) Step() Step {
	return s.State.Step()
}

// SessionStore persists portal sessions.
type SessionStore interface {
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
}

// Locker grants one in-flight action per session.
type Locker interface {
	// Lock returns ErrBusy when the session already has an action in flight.
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

const (
	sessionPrefix = "portal:session:v1:"
	lockPrefix    = "portal:lock:v1:"
	lockTTL       = 30 * time.Second
)

// RedisSessionStore keeps sessions as JSON documents whose TTL is refreshed on every save.
type RedisSessionStore struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewRedisSessionStore(cache *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{cache: cache, ttl: ttl}
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (Session, error) {
	raw, err := s.cache.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, sessionPrefix+sess.ID, payload, s.ttl).Err()
}

// RedisLocker reserves a session with SETNX. The reservation expires on its own if the holder dies,
// and each holder releases only the reservation it created.
type RedisLocker struct {
	cache *redis.Client
}

// releaseScript deletes the lock only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedisLocker(cache *redis.Client) *RedisLocker {
	return &RedisLocker{cache: cache}
}

func (l *RedisLocker) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockPrefix + sessionID
	token := uuid.NewString()
	ok, err := l.cache.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(cleanupCtx, l.cache, []string{key}, token)
	}, nil
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.ttl > 0 && !s.now().Before(entry.expires) {
		delete(s.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	var sess Session
	if err := json.Unmarshal(entry.payload, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memoryEntry{payload: payload, expires: s.now().Add(s.ttl)}
	return nil
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Lock(_ context.Context, sessionID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[sessionID]; busy {
		return nil, ErrBusy
	}
	l.held[sessionID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, sessionID)
			l.mu.Unlock()
		})
	}, nil
}
