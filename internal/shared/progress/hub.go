package progress

import (
	"sync"
	"time"

	"codescope/internal/core/errors"
	"codescope/internal/shared/observability"
)

const subscriberBuffer = 32

type session struct {
	state       State
	updatedAt   time.Time
	subscribers map[int]chan State
	nextSub     int
}

// Hub owns the progress state of every analysis session and multicasts
// snapshots to subscribers. Writers never block on a slow reader: when a
// subscriber buffer is full the oldest pending snapshot is dropped, so the
// next receive is the freshest state and a stream always ends on the
// terminal one.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*session)}
}

// Create registers a session in the queued state.
func (h *Hub) Create(id string, total int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.sessions[id]; exists {
		return errors.Newf(errors.CodeConflict, "session %q already exists", id)
	}

	h.sessions[id] = &session{
		state: State{
			SessionID:  id,
			TotalFiles: total,
			Status:     StatusQueued,
		},
		updatedAt:   time.Now(),
		subscribers: make(map[int]chan State),
	}
	observability.SessionsActive.Inc()
	return nil
}

// Advance moves a session into scanning with the latest counters. Writes
// after a terminal state are ignored.
func (h *Hub) Advance(id string, processed, total int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cell, err := h.get(id)
	if err != nil {
		return err
	}
	if cell.state.Status.Terminal() {
		return nil
	}

	cell.state.Status = StatusScanning
	cell.state.FilesProcessed = processed
	cell.state.TotalFiles = total
	if p := percent(processed, total); p > cell.state.Percentage {
		cell.state.Percentage = p
	}
	h.broadcastLocked(cell)
	return nil
}

// Complete publishes the final snapshot and closes all subscriber channels.
// The total is reconciled to the processed count in case files vanished
// between the counting and extraction passes.
func (h *Hub) Complete(id string, dupGroups int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cell, err := h.get(id)
	if err != nil {
		return err
	}
	if cell.state.Status.Terminal() {
		return nil
	}

	cell.state.Status = StatusCompleted
	cell.state.TotalFiles = cell.state.FilesProcessed
	cell.state.Percentage = 100
	cell.state.DuplicateGroups = dupGroups
	h.broadcastLocked(cell)
	h.closeSubscribersLocked(cell)
	return nil
}

// Fail publishes a failed snapshot, keeping the processed count reached so
// far, and closes all subscriber channels.
func (h *Hub) Fail(id string, reason string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cell, err := h.get(id)
	if err != nil {
		return err
	}
	if cell.state.Status.Terminal() {
		return nil
	}

	cell.state.Status = StatusFailed
	cell.state.Error = reason
	h.broadcastLocked(cell)
	h.closeSubscribersLocked(cell)
	return nil
}

// Subscribe returns a channel that first replays the session's current
// state, then receives every subsequent snapshot. For a session already in
// a terminal state the channel delivers that state and is closed. The
// returned cancel func detaches the subscriber; calling it more than once
// is safe.
func (h *Hub) Subscribe(id string) (<-chan State, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cell, err := h.get(id)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan State, subscriberBuffer)
	ch <- cell.state

	if cell.state.Status.Terminal() {
		close(ch)
		return ch, func() {}, nil
	}

	subID := cell.nextSub
	cell.nextSub++
	cell.subscribers[subID] = ch
	observability.ProgressSubscribers.Inc()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := cell.subscribers[subID]; ok {
			delete(cell.subscribers, subID)
			close(c)
			observability.ProgressSubscribers.Dec()
		}
	}
	return ch, cancel, nil
}

// Snapshot returns the current state without subscribing.
func (h *Hub) Snapshot(id string) (State, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cell, ok := h.sessions[id]
	if !ok {
		return State{}, errors.Newf(errors.CodeNotFound, "unknown session %q", id)
	}
	return cell.state, nil
}

// Evict removes terminal sessions whose last update is older than the
// retention window and reports how many were removed.
func (h *Hub) Evict(retention time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	evicted := 0
	now := time.Now()
	for id, cell := range h.sessions {
		if !cell.state.Status.Terminal() {
			continue
		}
		if now.Sub(cell.updatedAt) < retention {
			continue
		}
		delete(h.sessions, id)
		observability.SessionsActive.Dec()
		evicted++
	}
	return evicted
}

func (h *Hub) get(id string) (*session, error) {
	cell, ok := h.sessions[id]
	if !ok {
		return nil, errors.Newf(errors.CodeNotFound, "unknown session %q", id)
	}
	return cell, nil
}

func (h *Hub) broadcastLocked(cell *session) {
	cell.updatedAt = time.Now()
	for _, ch := range cell.subscribers {
		select {
		case ch <- cell.state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cell.state:
			default:
			}
		}
	}
}

func (h *Hub) closeSubscribersLocked(cell *session) {
	for id, ch := range cell.subscribers {
		close(ch)
		delete(cell.subscribers, id)
		observability.ProgressSubscribers.Dec()
	}
}

func percent(processed, total int) int {
	if total <= 0 {
		return 0
	}
	return processed * 100 / total
}
