package storage

import (
	"context"
	"errors"
	"fmt"
)

// Kind names a storage backend.
type Kind string

const (
	KindPersistent Kind = "persistent"
	KindTab        Kind = "tab"
	KindMemory     Kind = "memory"
)

// Kinds lists the supported kinds in cleanup order.
var Kinds = []Kind{KindPersistent, KindTab, KindMemory}

var ErrUnknownKind = errors.New("unknown storage kind")

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Backend is a minimal key/value store.
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key
// is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Registry holds the configured backends and the single active one.
type Registry struct {
	active   Kind
	backends map[Kind]Backend
}

// NewRegistry returns a registry whose active backend is backends[active].
func NewRegistry(active Kind, backends map[Kind]Backend) (*Registry, error) {
	b, ok := backends[active]
	if !ok || b == nil {
		return nil, fmt.Errorf("active storage %q is not configured", active)
	}
	r := &Registry{active: active, backends: make(map[Kind]Backend, len(backends))}
	for k, v := range backends {
		if v != nil {
			r.backends[k] = v
		}
	}
	return r, nil
}

func (r *Registry) ActiveKind() Kind { return r.active }

func (r *Registry) Active() Backend { return r.backends[r.active] }

// All returns every configured backend, ordered as in Kinds.
func (r *Registry) All() []Backend {
	all := make([]Backend, 0, len(r.backends))
	for _, k := range Kinds {
		if b, ok := r.backends[k]; ok {
			all = append(all, b)
		}
	}
	return all
}
