package core

import (
	"sort"
	"sync"
)

// Registry owns the process-wide nickname space: at most one live client
// holds a given nickname at any instant.
type Registry struct {
	mu      sync.Mutex
	clients map[string]Channel
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Channel)}
}

// Register claims nick for ch. The uniqueness check and the insert happen
// under a single lock acquisition, so concurrent claims of the same nick
// cannot both succeed.
func (r *Registry) Register(nick string, ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.clients[nick]; taken {
		return ErrNicknameTaken
	}
	r.clients[nick] = ch
	return nil
}

// Unregister releases nick. Calling it for a nick that is not registered
// is a no-op.
func (r *Registry) Unregister(nick string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, nick)
}

// Lookup returns the channel currently owning nick.
func (r *Registry) Lookup(nick string) (Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.clients[nick]
	if !ok {
		return nil, ErrUserNotFound
	}
	return ch, nil
}

// Nicknames returns a sorted snapshot of the registered nicknames.
func (r *Registry) Nicknames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.clients))
	for nick := range r.clients {
		names = append(names, nick)
	}
	sort.Strings(names)
	return names
}

// Count reports how many clients are currently registered.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
