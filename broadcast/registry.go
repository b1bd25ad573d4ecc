package broadcast

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry is the set of live subscriber connections.
//
// Membership changes on join and leave from many goroutines; broadcast
// iterates a point-in-time copy, so a slow or dead connection never stalls
// new joins.
type Registry struct {
	nextID atomic.Uint64
	subs   *xsync.Map[uint64, Subscriber]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: xsync.NewMap[uint64, Subscriber]()}
}

// Join adds a subscriber and returns its membership id.
func (r *Registry) Join(sub Subscriber) uint64 {
	id := r.nextID.Add(1)
	r.subs.Store(id, sub)

	return id
}

// Leave removes a subscriber by id.
//
// Returns:
//   - bool: true when the id was present (false for double-leave races)
func (r *Registry) Leave(id uint64) bool {
	_, present := r.subs.LoadAndDelete(id)

	return present
}

// Count returns the current membership size.
func (r *Registry) Count() int {
	return r.subs.Size()
}

// members returns a point-in-time copy of the membership.
func (r *Registry) members() []member {
	out := make([]member, 0, r.subs.Size())
	r.subs.Range(func(id uint64, sub Subscriber) bool {
		out = append(out, member{id: id, sub: sub})

		return true
	})

	return out
}

// CloseAll closes and removes every subscriber. Used on force stop.
//
// Returns:
//   - int: Number of subscribers closed
func (r *Registry) CloseAll() int {
	closed := 0
	for _, m := range r.members() {
		if r.Leave(m.id) {
			_ = m.sub.Close()
			closed++
		}
	}

	return closed
}

type member struct {
	id  uint64
	sub Subscriber
}
