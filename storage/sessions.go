package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jsaveker/fork-it-app/logging"
	"github.com/jsaveker/fork-it-app/session"
)

const (
	// SessionPrefix namespaces session keys in the shared store.
	SessionPrefix = "session:"

	// DefaultSessionTTL is the session lifetime when none is configured.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultCallTimeout bounds individual store calls so no request can
	// hang on the backend.
	DefaultCallTimeout = 5 * time.Second
)

// SessionStorage is the session repository contract.
type SessionStorage interface {
	Create(ctx context.Context, name string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) (*session.Session, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*session.Session, error)
}

// KVSessionStorage stores sessions as JSON blobs in a KeyValueStore, one
// key per session. The key is always derived from the id the caller holds:
// Save echoes back the exact session it was given and never substitutes a
// different id, so a client can trust that the id it created with is the
// id it reads back.
type KVSessionStorage struct {
	Store   KeyValueStore
	TTL     time.Duration
	Timeout time.Duration
}

func (s *KVSessionStorage) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *KVSessionStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *KVSessionStorage) Create(ctx context.Context, name string) (*session.Session, error) {
	sess := session.New(name, s.ttl())

	data, err := json.Marshal(sess)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to marshal new session: %v", err)
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.Store.Put(ctx, SessionPrefix+sess.ID, data, s.ttl()); err != nil {
		return nil, err
	}
	logging.Log.Infof("SESSION: created %s (%q)", sess.ID, sess.Name)
	return sess, nil
}

func (s *KVSessionStorage) Get(ctx context.Context, id string) (*session.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, err := s.Store.Get(ctx, SessionPrefix+id)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	sess, ok := decodeSession(data)
	if !ok {
		// A record we cannot read is as good as absent.
		logging.Log.Errorf("SESSION: corrupt record for %s, treating as not found", id)
		return nil, ErrSessionNotFound
	}
	if sess.Expired(time.Now().UTC()) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Save persists the session under its existing id and pushes the expiry
// out by the full TTL, both in the record and at the store level.
func (s *KVSessionStorage) Save(ctx context.Context, sess *session.Session) (*session.Session, error) {
	sess.Touch(s.ttl())

	data, err := json.Marshal(sess)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to marshal session %s: %v", sess.ID, err)
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.Store.Put(ctx, SessionPrefix+sess.ID, data, s.ttl()); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *KVSessionStorage) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Store.Delete(ctx, SessionPrefix+id)
}

func (s *KVSessionStorage) GetAll(ctx context.Context) ([]*session.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	blobs, err := s.Store.List(ctx, SessionPrefix)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sessions := make([]*session.Session, 0, len(blobs))
	for _, blob := range blobs {
		sess, ok := decodeSession(blob)
		if !ok {
			logging.Log.Warnf("SESSION: skipping corrupt record in listing")
			continue
		}
		if sess.Expired(now) {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func decodeSession(data []byte) (*session.Session, bool) {
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.ID == "" {
		return nil, false
	}
	sess.Normalize()
	return &sess, true
}
