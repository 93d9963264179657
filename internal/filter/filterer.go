package filter

import (
	"slices"
	"sync"
	"time"

	"clientdesk/internal/client"
)

// DefaultDebounce is how long Update waits for further changes before
// recomputing.
const DefaultDebounce = 300 * time.Millisecond

// Patch is a partial filter update; nil fields keep their current value.
type Patch struct {
	SearchTerm *string
	Status     *StatusFilter
}

// State is the derived view published to subscribers.
type State struct {
	Filters     Filters         `json:"filters"`
	Clients     []client.Client `json:"filteredClients"`
	Total       int             `json:"totalCount"`
	IsFiltering bool            `json:"isFiltering"`
}

// Filterer keeps a client list and the current filters, recomputing the
// filtered view after filter changes settle.
type Filterer struct {
	delay time.Duration

	mu      sync.Mutex
	clients []client.Client
	filters Filters
	applied Filters
	result  []client.Client
	timer   *time.Timer
	subs    map[chan State]struct{}
	closed  bool
}

// NewFilterer returns a Filterer with no clients. A non-positive delay
// means DefaultDebounce.
func NewFilterer(delay time.Duration) *Filterer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Filterer{
		delay:   delay,
		filters: Defaults(),
		applied: Defaults(),
		result:  []client.Client{},
		subs:    make(map[chan State]struct{}),
	}
}

// SetClients replaces the client list and recomputes immediately with the
// last applied filters.
func (f *Filterer) SetClients(clients []client.Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = slices.Clone(clients)
	f.result = Apply(f.clients, f.applied)
	f.publishLocked()
}

// Update merges p into the filters and schedules a recompute.
func (f *Filterer) Update(p Patch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.SearchTerm != nil {
		f.filters.SearchTerm = *p.SearchTerm
	}
	if p.Status != nil {
		f.filters.Status = *p.Status
	}
	f.scheduleLocked()
}

// Clear resets the filters and schedules a recompute.
func (f *Filterer) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = Defaults()
	f.scheduleLocked()
}

// Flush applies pending filter changes now.
func (f *Filterer) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.applyLocked()
}

// Filters returns the current, possibly not yet applied, filters.
func (f *Filterer) Filters() Filters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

// State returns the current view.
func (f *Filterer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Subscribe returns a channel receiving the view after every recompute,
// starting with the current one. Slow readers only see the latest view.
func (f *Filterer) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	f.subs[ch] = struct{}{}
	ch <- f.stateLocked()
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.subs[ch]; ok {
				delete(f.subs, ch)
				close(ch)
			}
		})
	}
}

// Close stops the pending recompute and closes all subscriptions.
func (f *Filterer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	for ch := range f.subs {
		close(ch)
	}
	clear(f.subs)
}

func (f *Filterer) scheduleLocked() {
	if f.closed {
		return
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.timer != timer {
			return
		}
		f.timer = nil
		f.applyLocked()
	})
	f.timer = timer
}

func (f *Filterer) applyLocked() {
	if f.closed || f.filters == f.applied {
		return
	}
	f.applied = f.filters
	f.result = Apply(f.clients, f.applied)
	f.publishLocked()
}

func (f *Filterer) stateLocked() State {
	return State{
		Filters:     f.filters,
		Clients:     slices.Clone(f.result),
		Total:       len(f.clients),
		IsFiltering: f.filters.Active(),
	}
}

func (f *Filterer) publishLocked() {
	state := f.stateLocked()
	for ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}
