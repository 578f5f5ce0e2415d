// Package embed renders live code embeds: it resolves embed references to
// managed files and hands line-windowed views to the host, debounced per
// slot and safe against out-of-order completion.
package embed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mvp-joe/codespace/internal/reference"
	"github.com/mvp-joe/codespace/internal/resolver"
)

var (
	// ErrUnknownSlot indicates the slot was never attached or already detached
	ErrUnknownSlot = errors.New("unknown embed slot")

	// ErrClosed indicates the scheduler has been closed
	ErrClosed = errors.New("embed scheduler closed")
)

const (
	DefaultDebounce   = 50 * time.Millisecond
	DefaultRetryDelay = 100 * time.Millisecond
)

// Host is the UI side of embeds.
type Host interface {
	// ActiveSourcePath returns the vault path of the active document, or ""
	// when none is known. Used when a request carries no source path.
	ActiveSourcePath() string

	// Commit replaces the slot's markup with view. It is called at most once
	// per render attempt and never for a superseded attempt.
	Commit(id SlotID, view View)
}

// Options configures a Scheduler.
type Options struct {
	Debounce      time.Duration // quiet period per slot; 0 means DefaultDebounce
	RetryDelay    time.Duration // wait before retrying without a usable source; 0 means DefaultRetryDelay
	SourceRetries int           // retries before resolving without a source path
	Settings      Settings
	Parser        reference.Parser
	Logger        *slog.Logger
}

// Scheduler owns the embed slots of one host.
type Scheduler struct {
	resolver      *resolver.Resolver
	host          Host
	debounce      time.Duration
	retryDelay    time.Duration
	sourceRetries int
	logger        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	slots    *registry
	settings Settings
	parser   reference.Parser
	inflight int // armed timers plus running attempts
	closed   bool
}

// NewScheduler creates a scheduler resolving through r and committing to host.
func NewScheduler(r *resolver.Resolver, host Host, opts Options) *Scheduler {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.SourceRetries < 0 {
		opts.SourceRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		resolver:      r,
		host:          host,
		parser:        opts.Parser,
		debounce:      opts.Debounce,
		retryDelay:    opts.RetryDelay,
		sourceRetries: opts.SourceRetries,
		logger:        opts.Logger,
		ctx:           ctx,
		cancel:        cancel,
		slots:         newRegistry(),
		settings:      opts.Settings,
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Attach registers a new slot for anchor. Nothing is rendered until Schedule.
func (s *Scheduler) Attach(anchor Anchor) (SlotID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	id := NewSlotID()
	s.slots.add(s.ctx, id, anchor)
	return id, nil
}

// Schedule requests a render of the slot. Requests within the debounce
// window collapse into one; the last request's source path is used.
func (s *Scheduler) Schedule(id SlotID, sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.slotLocked(id)
	if err != nil {
		return err
	}

	sl.sourcePath = sourcePath
	s.armLocked(sl)
	return nil
}

// ScheduleAnchor replaces the slot's anchor and schedules a render.
func (s *Scheduler) ScheduleAnchor(id SlotID, anchor Anchor, sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.slotLocked(id)
	if err != nil {
		return err
	}

	sl.anchor = anchor
	sl.sourcePath = sourcePath
	s.armLocked(sl)
	return nil
}

// Detach tears the slot down. In-flight attempts for it are discarded.
func (s *Scheduler) Detach(id SlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped, ok := s.slots.remove(id)
	if !ok {
		return ErrUnknownSlot
	}
	if stopped {
		s.doneLocked()
	}
	return nil
}

// Invalidate re-renders slots whose committed file is among paths, and
// slots that have not committed anything yet. In-flight attempts for those
// slots are superseded. It returns the number of slots rescheduled.
func (s *Scheduler) Invalidate(paths []string) int {
	changed := make(map[string]bool, len(paths))
	for _, p := range paths {
		changed[p] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}

	n := 0
	for _, sl := range s.slots.all() {
		if sl.committedPath != "" && !changed[sl.committedPath] {
			continue
		}
		s.resetLocked(sl)
		n++
	}
	return n
}

// SetSettings replaces render settings and re-renders every slot.
func (s *Scheduler) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	if s.closed {
		return
	}
	for _, sl := range s.slots.all() {
		s.resetLocked(sl)
	}
}

// SetParser replaces the reference parser and re-renders every slot.
func (s *Scheduler) SetParser(p reference.Parser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parser = p
	if s.closed {
		return
	}
	for _, sl := range s.slots.all() {
		s.resetLocked(sl)
	}
}

// Settings returns the current render settings.
func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Len returns the number of attached slots.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots.len()
}

// Wait blocks until no timers are armed and no attempts are running.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		s.idle.Wait()
	}
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() when ctx is
// done before the scheduler goes idle.
func (s *Scheduler) WaitContext(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.idle.Broadcast()
	})
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.inflight > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.idle.Wait()
	}
	return nil
}

// Close detaches every slot, cancels in-flight reads and waits for running
// attempts to finish.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, sl := range s.slots.all() {
		if stopped, _ := s.slots.remove(sl.id); stopped {
			s.doneLocked()
		}
	}
	s.mu.Unlock()

	s.cancel()
	s.Wait()
	return nil
}

func (s *Scheduler) slotLocked(id SlotID) (*slot, error) {
	if s.closed {
		return nil, ErrClosed
	}
	sl, ok := s.slots.get(id)
	if !ok {
		return nil, ErrUnknownSlot
	}
	return sl, nil
}

// resetLocked forgets the committed identity, supersedes running attempts
// and re-arms the debounce timer.
func (s *Scheduler) resetLocked(sl *slot) {
	sl.committed = ""
	sl.committedPath = ""
	sl.token++
	s.armLocked(sl)
}

// armLocked (re)starts the slot's debounce timer.
func (s *Scheduler) armLocked(sl *slot) {
	if sl.timer != nil && sl.timer.Stop() {
		s.inflight--
	}

	sl.timerGen++
	gen := sl.timerGen
	s.inflight++
	sl.timer = time.AfterFunc(s.debounce, func() { s.fire(sl, gen) })
}

func (s *Scheduler) doneLocked() {
	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
}

func (s *Scheduler) done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doneLocked()
}

// fire runs when the debounce window elapses and starts a render attempt
// with a fresh token.
func (s *Scheduler) fire(sl *slot, gen uint64) {
	s.mu.Lock()
	// A timer that fired while being re-armed is folded into the new one
	if sl.timerGen != gen {
		s.doneLocked()
		s.mu.Unlock()
		return
	}
	sl.timer = nil
	if s.closed || sl.detached {
		s.doneLocked()
		s.mu.Unlock()
		return
	}

	sl.token++
	att := &attempt{s: s, slot: sl, token: sl.token}
	anchor, sourcePath, settings, parser := sl.anchor, sl.sourcePath, s.settings, s.parser
	s.mu.Unlock()

	s.run(att, parser, anchor, sourcePath, settings, 0)
}

// run resolves, reads and commits one attempt. The inflight count taken by
// fire is released when run returns, or handed to the retry timer.
func (s *Scheduler) run(att *attempt, parser reference.Parser, anchor Anchor, sourcePath string, settings Settings, retry int) {
	handedOff := false
	defer func() {
		if !handedOff {
			s.done()
		}
	}()

	log := s.logger.With("slot", string(att.slot.id), "token", att.token)

	if !att.live() {
		log.Debug("embed attempt superseded before resolve")
		return
	}

	ref := parser.Parse(anchor.LinkText())
	if ref.IsEmpty() {
		log.Debug("embed reference is empty", "link", anchor.LinkText())
		return
	}

	source := sourcePath
	if source == "" && s.host != nil {
		source = s.host.ActiveSourcePath()
	}

	f, ok := s.resolver.Resolve(ref, source)
	if !ok {
		if !resolver.UsableSource(source) && retry < s.sourceRetries {
			log.Debug("embed source path unavailable, retrying", "retry", retry+1, "delay", s.retryDelay)
			handedOff = s.retryLater(func() {
				s.run(att, parser, anchor, sourcePath, settings, retry+1)
			})
			return
		}
		log.Debug("embed reference not resolved", "ref", ref.String(), "source", source)
		return
	}

	identity := f.Path + ref.RangeSuffix()

	if !att.live() {
		log.Debug("embed attempt superseded before read", "file", f.Path)
		return
	}
	if att.committedIdentity() == identity {
		log.Debug("embed unchanged, skipping render", "identity", identity)
		return
	}

	content, err := s.resolver.Namespace().ReadFile(att.slot.ctx, f)
	if err != nil {
		log.Debug("embed read failed", "file", f.Path, "error", err)
		return
	}

	view := BuildView(f, content, ref, settings)
	if !att.commit(identity, f.Path, view) {
		log.Debug("embed attempt superseded before commit", "file", f.Path)
	}
}

// retryLater schedules fn after the retry delay, carrying the current
// inflight count. It reports false when the scheduler is closed.
func (s *Scheduler) retryLater(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	time.AfterFunc(s.retryDelay, fn)
	return true
}

// attempt is the cancellation context of one render. An attempt is live
// while its token is the slot's current token.
type attempt struct {
	s     *Scheduler
	slot  *slot
	token uint64
}

func (a *attempt) live() bool {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.liveLocked()
}

func (a *attempt) liveLocked() bool {
	return !a.s.closed && !a.slot.detached && a.slot.token == a.token
}

func (a *attempt) committedIdentity() string {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.slot.committed
}

// commit hands view to the host if the attempt is still live.
func (a *attempt) commit(identity, path string, view View) bool {
	a.slot.commitMu.Lock()
	defer a.slot.commitMu.Unlock()

	if !a.live() {
		return false
	}

	a.s.host.Commit(a.slot.id, view)

	a.s.mu.Lock()
	a.slot.committed = identity
	a.slot.committedPath = path
	a.s.mu.Unlock()
	return true
}
