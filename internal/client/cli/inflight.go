package cli

import (
	"errors"
	"sync"
)

// ErrBusy is returned when the same action is triggered while it is
// still outstanding.
var ErrBusy = errors.New("action already in progress")

// inflight tracks outstanding actions by key, e.g. "login" or
// "get:/api/campaigns/7".
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// start marks key as outstanding. ok is false if it already was; otherwise
// done must be called to release it.
func (f *inflight) start(key string) (done func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.keys[key]; busy {
		return nil, false
	}
	f.keys[key] = struct{}{}

	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, true
}

