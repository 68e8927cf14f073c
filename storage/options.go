package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jsaveker/fork-it-app/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// optionsKey is the single store key the whole lunch-options list lives
// under. Mutations are read-modify-write on that one key, with the same
// accepted lost-update caveat as sessions.
const optionsKey = "options"

const (
	optionIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	optionIDLength   = 8
)

// Option is one entry of the global lunch candidate list.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OptionStorage manages the global lunch-options list.
type OptionStorage interface {
	GetAll(ctx context.Context) ([]Option, error)
	Add(ctx context.Context, name string) (*Option, error)
	Rename(ctx context.Context, id, name string) (*Option, error)
	Remove(ctx context.Context, id string) error
}

// KVOptionStorage keeps the options list as one JSON array in the
// KeyValueStore. The list never expires.
type KVOptionStorage struct {
	Store   KeyValueStore
	Timeout time.Duration
}

func (s *KVOptionStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *KVOptionStorage) load(ctx context.Context) ([]Option, error) {
	data, err := s.Store.Get(ctx, optionsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return []Option{}, nil
	}
	if err != nil {
		return nil, err
	}

	var options []Option
	if err := json.Unmarshal(data, &options); err != nil {
		logging.Log.Errorf("OPTIONS: corrupt options list, starting empty: %v", err)
		return []Option{}, nil
	}
	return options, nil
}

func (s *KVOptionStorage) persist(ctx context.Context, options []Option) error {
	data, err := json.Marshal(options)
	if err != nil {
		logging.Log.Errorf("OPTIONS: failed to marshal options list: %v", err)
		return err
	}
	return s.Store.Put(ctx, optionsKey, data, 0)
}

func (s *KVOptionStorage) GetAll(ctx context.Context) ([]Option, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.load(ctx)
}

func (s *KVOptionStorage) Add(ctx context.Context, name string) (*Option, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	options, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.Generate(optionIDAlphabet, optionIDLength)
	if err != nil {
		logging.Log.Errorf("OPTIONS: failed to generate option id: %v", err)
		return nil, err
	}

	option := Option{ID: id, Name: name}
	options = append(options, option)
	if err := s.persist(ctx, options); err != nil {
		return nil, err
	}
	return &option, nil
}

// Rename updates an option's display name. An empty name keeps the current
// one, matching how clients clear the input without losing the entry.
func (s *KVOptionStorage) Rename(ctx context.Context, id, name string) (*Option, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	options, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range options {
		if options[i].ID != id {
			continue
		}
		if name != "" {
			options[i].Name = name
		}
		if err := s.persist(ctx, options); err != nil {
			return nil, err
		}
		return &options[i], nil
	}
	return nil, ErrOptionNotFound
}

// Remove deletes the option with the given id. Removing an absent id is a
// successful no-op so callers can retry blindly.
func (s *KVOptionStorage) Remove(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	options, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := options[:0]
	for _, option := range options {
		if option.ID != id {
			kept = append(kept, option)
		}
	}
	return s.persist(ctx, kept)
}
