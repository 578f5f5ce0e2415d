package embed

import (
	"context"
	"sync"
)

// Collector is a Host for headless callers such as the CLI and the MCP
// server. It keeps the last view committed to each slot.
type Collector struct {
	mu     sync.Mutex
	active string
	views  map[SlotID]View
}

// NewCollector creates a collector whose active document is activeSourcePath.
func NewCollector(activeSourcePath string) *Collector {
	return &Collector{
		active: activeSourcePath,
		views:  make(map[SlotID]View),
	}
}

// SetActiveSourcePath changes the path reported as the active document.
func (c *Collector) SetActiveSourcePath(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = p
}

// ActiveSourcePath implements Host.
func (c *Collector) ActiveSourcePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Commit implements Host.
func (c *Collector) Commit(id SlotID, view View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[id] = view
}

// View returns the last view committed to id.
func (c *Collector) View(id SlotID) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	return v, ok
}

// Forget drops the view recorded for id.
func (c *Collector) Forget(id SlotID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, id)
}

// Render attaches a one-off slot for anchor, waits until the scheduler is
// idle and returns what was committed. ok is false when the reference did
// not resolve or the file could not be read. c must be the scheduler's host.
func Render(ctx context.Context, s *Scheduler, c *Collector, anchor Anchor, sourcePath string) (view View, ok bool, err error) {
	id, err := s.Attach(anchor)
	if err != nil {
		return View{}, false, err
	}
	defer func() {
		_ = s.Detach(id)
		c.Forget(id)
	}()

	if err := s.Schedule(id, sourcePath); err != nil {
		return View{}, false, err
	}
	if err := s.WaitContext(ctx); err != nil {
		return View{}, false, err
	}

	view, ok = c.View(id)
	return view, ok, nil
}
