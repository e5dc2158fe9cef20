package repository

import (
	"log/slog"
	"sync"
)

// Op is a row-level change operation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Table identifies the logical data set an event belongs to.
type Table string

const (
	TableDemands     Table = "demand_periods"
	TableAssignments Table = "assignment_periods"
	TableAbsences    Table = "absence_periods"
	TableTransfers   Table = "transfer_records"
)

// Event is one confirmed row-level change. Record holds the full row as a
// domain value (*domain.DemandPeriod and friends); for deletes only the ID
// may be populated.
type Event struct {
	Table  Table
	Op     Op
	ID     string
	Record any
}

// ChangeFeed is the in-process half of the persistence contract's
// change-notification subscription. Repositories publish after each
// successful write; subscribers receive buffered events. A subscriber that
// falls behind loses events with a logged warning instead of blocking
// writers — consolidation-triggered full reloads are the consistency
// backstop for dropped events.
type ChangeFeed struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	logger *slog.Logger
}

func NewChangeFeed(logger *slog.Logger) *ChangeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeFeed{subs: make(map[int]chan Event), logger: logger}
}

// Subscribe registers a listener with the given buffer size and returns the
// event channel plus a cancel function. Cancel closes the channel.
func (f *ChangeFeed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Event, buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (f *ChangeFeed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		select {
		case ch <- e:
		default:
			f.logger.Warn("change feed subscriber lagging, dropping event",
				"subscriber", id, "table", string(e.Table), "op", string(e.Op), "id", e.ID)
		}
	}
}

// publish is a nil-safe helper for repositories constructed without a feed
// (tx-scoped repositories used by consolidation suppress the event trickle).
func publish(f *ChangeFeed, e Event) {
	if f != nil {
		f.Publish(e)
	}
}
