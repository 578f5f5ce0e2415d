package embed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SlotID identifies an embed slot independently of any UI handle.
type SlotID string

// NewSlotID returns a fresh random slot identifier.
func NewSlotID() SlotID {
	return SlotID(uuid.NewString())
}

// slot is the per-embed record. Fields other than commitMu are guarded by
// the scheduler mutex.
type slot struct {
	id         SlotID
	anchor     Anchor
	sourcePath string

	token         uint64 // bumped when a debounce elapses or the slot is invalidated
	committed     string // identity of the last committed view
	committedPath string

	timer    *time.Timer
	timerGen uint64

	ctx      context.Context // cancelled on detach
	cancel   context.CancelFunc
	detached bool

	// commitMu serializes the final token check with the host commit.
	commitMu sync.Mutex
}

// registry owns slot records and their cleanup.
type registry struct {
	slots map[SlotID]*slot
}

func newRegistry() *registry {
	return &registry{slots: make(map[SlotID]*slot)}
}

func (r *registry) add(parent context.Context, id SlotID, anchor Anchor) *slot {
	ctx, cancel := context.WithCancel(parent)
	s := &slot{id: id, anchor: anchor, ctx: ctx, cancel: cancel}
	r.slots[id] = s
	return s
}

func (r *registry) get(id SlotID) (*slot, bool) {
	s, ok := r.slots[id]
	return s, ok
}

// remove tears the slot down and reports whether a pending timer was stopped.
func (r *registry) remove(id SlotID) (stoppedTimer bool, ok bool) {
	s, ok := r.slots[id]
	if !ok {
		return false, false
	}
	delete(r.slots, id)
	s.detached = true
	s.cancel()
	if s.timer != nil {
		stoppedTimer = s.timer.Stop()
		s.timer = nil
	}
	return stoppedTimer, true
}

func (r *registry) len() int {
	return len(r.slots)
}

func (r *registry) all() []*slot {
	out := make([]*slot, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, s)
	}
	return out
}
