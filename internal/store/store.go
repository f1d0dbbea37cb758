package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teemow/workday/internal/config"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store remembers which items have been processed. Implementations are safe
// for concurrent use.
type Store interface {
	// Seen reports whether key has been marked.
	Seen(ctx context.Context, key string) (bool, error)
	// Mark records key as processed. Marking a key twice is not an error.
	Mark(ctx context.Context, key string) error
	Close() error
}

// Namespace prefixes every key with ns and a colon, so several services can
// share one backing store.
func Namespace(s Store, ns string) Store {
	return &namespaced{Store: s, prefix: ns + ":"}
}

type namespaced struct {
	Store
	prefix string
}

func (n *namespaced) Seen(ctx context.Context, key string) (bool, error) {
	return n.Store.Seen(ctx, n.prefix+key)
}

func (n *namespaced) Mark(ctx context.Context, key string) error {
	return n.Store.Mark(ctx, n.prefix+key)
}

// Open creates the store selected by cfg. A sqlite store drops keys older
// than cfg.TTL while opening.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.TTL > 0 {
			if _, err := s.Prune(ctx, time.Now().Add(-cfg.TTL)); err != nil {
				s.Close()
				return nil, err
			}
		}
		return s, nil
	case "redis":
		return NewRedis(ctx, RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
		})
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}
