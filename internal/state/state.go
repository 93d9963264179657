// Package state keeps a client-side snapshot of the client list in sync
// with the API and reports outcomes as notifications.
package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"clientdesk/internal/client"
	"clientdesk/internal/notify"
)

// DefaultMaxAge is how old a snapshot may get before RefreshIfStale
// reloads it.
const DefaultMaxAge = 5 * time.Minute

// ErrUnknownClient is returned when an id is not in the snapshot.
var ErrUnknownClient = errors.New("client not in state")

// ClientAPI is the remote client store.
type ClientAPI interface {
	List(ctx context.Context) ([]client.Client, error)
	Create(ctx context.Context, in client.Input) (client.Client, error)
	Update(ctx context.Context, id int64, in client.Input) (client.Client, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// State is one snapshot. SelectedID is 0 when nothing is selected.
type State struct {
	Clients     []client.Client `json:"clients"`
	Loading     bool            `json:"isLoading"`
	Err         string          `json:"error,omitempty"`
	SelectedID  int64           `json:"selectedClientId,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Counts is the number of clients per status.
type Counts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Store holds the snapshot.
type Store struct {
	api    ClientAPI
	notify Notifier
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	subs  map[chan State]struct{}
}

// New creates an empty Store. notify and logger may be nil.
func New(api ClientAPI, notify Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Store{
		api:    api,
		notify: notify,
		logger: logger.Named("state"),
		now:    time.Now,
		state:  State{Clients: []client.Client{}},
		subs:   make(map[chan State]struct{}),
	}
}

// Load fetches every client and replaces the snapshot.
func (s *Store) Load(ctx context.Context) ([]client.Client, error) {
	s.update(func(st *State) {
		st.Loading = true
		st.Err = ""
	})

	clients, err := s.api.List(ctx)
	if err != nil {
		s.update(func(st *State) {
			st.Loading = false
			st.Err = err.Error()
		})
		s.notify.Error("Error", "Failed to load clients")
		s.logger.Error("failed to load clients", zap.Error(err))
		return nil, err
	}

	s.update(func(st *State) {
		st.Clients = slices.Clone(clients)
		st.Loading = false
		st.Err = ""
		st.LastUpdated = s.now()
	})
	s.logger.Info("clients loaded", zap.Int("count", len(clients)))
	return clients, nil
}

// Create adds a client through the API and appends it to the snapshot.
func (s *Store) Create(ctx context.Context, in client.Input) (client.Client, error) {
	created, err := s.api.Create(ctx, in)
	if err != nil {
		s.notify.Error("Error", "Failed to create client: "+err.Error())
		s.logger.Error("failed to create client", zap.Error(err))
		return client.Client{}, err
	}
	s.Add(created)
	s.notify.Success("Success", "Client created successfully")
	return created, nil
}

// Update changes a client that is already in the snapshot.
func (s *Store) Update(ctx context.Context, id int64, in client.Input) (client.Client, error) {
	if _, ok := s.ByID(id); !ok {
		return client.Client{}, fmt.Errorf("%w: client with ID %d not found", ErrUnknownClient, id)
	}

	updated, err := s.api.Update(ctx, id, in)
	if err != nil {
		s.notify.Error("Error", "Failed to update client: "+err.Error())
		s.logger.Error("failed to update client", zap.Int64("id", id), zap.Error(err))
		return client.Client{}, err
	}

	s.update(func(st *State) {
		if i := indexOf(st.Clients, id); i >= 0 {
			st.Clients = slices.Clone(st.Clients)
			st.Clients[i] = updated
		}
		st.LastUpdated = s.now()
	})
	s.notify.Success("Success", "Client updated successfully")
	s.logger.Info("client updated", zap.Int64("id", id))
	return updated, nil
}

// Delete removes a client that is already in the snapshot.
func (s *Store) Delete(ctx context.Context, id int64) error {
	existing, ok := s.ByID(id)
	if !ok {
		return fmt.Errorf("%w: client with ID %d not found", ErrUnknownClient, id)
	}

	if err := s.api.Delete(ctx, id); err != nil {
		s.notify.Error("Error", "Failed to delete client: "+err.Error())
		s.logger.Error("failed to delete client", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.update(func(st *State) {
		st.Clients = slices.DeleteFunc(slices.Clone(st.Clients), func(c client.Client) bool { return c.ID == id })
		if st.SelectedID == id {
			st.SelectedID = 0
		}
		st.LastUpdated = s.now()
	})
	s.notify.Success("Success", fmt.Sprintf("Client %q deleted successfully", existing.Name))
	s.logger.Info("client deleted", zap.Int64("id", id), zap.String("name", existing.Name))
	return nil
}

// Add appends c to the snapshot.
func (s *Store) Add(c client.Client) {
	s.update(func(st *State) {
		st.Clients = append(slices.Clone(st.Clients), c)
		st.LastUpdated = s.now()
	})
}

// Select marks id as selected; 0 clears the selection.
func (s *Store) Select(id int64) {
	s.update(func(st *State) { st.SelectedID = id })
}

// Selected returns the selected client, if it is in the snapshot.
func (s *Store) Selected() (client.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedID == 0 {
		return client.Client{}, false
	}
	return find(s.state.Clients, s.state.SelectedID)
}

// ClearError drops the stored error message.
func (s *Store) ClearError() {
	s.update(func(st *State) { st.Err = "" })
}

// ByID returns the client with id from the snapshot.
func (s *Store) ByID(id int64) (client.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.state.Clients, id)
}

// Counts tallies the snapshot by status.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{Total: len(s.state.Clients)}
	for _, cl := range s.state.Clients {
		switch cl.Status {
		case client.StatusActive:
			c.Active++
		case client.StatusInactive:
			c.Inactive++
		}
	}
	return c
}

// ShouldRefresh reports whether the snapshot was never loaded or is older
// than maxAge.
func (s *Store) ShouldRefresh(maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LastUpdated.IsZero() {
		return true
	}
	return s.now().Sub(s.state.LastUpdated) > maxAge
}

// RefreshIfStale loads the clients when ShouldRefresh(maxAge) holds. It
// reports whether a load happened.
func (s *Store) RefreshIfStale(ctx context.Context, maxAge time.Duration) (bool, error) {
	if !s.ShouldRefresh(maxAge) {
		return false, nil
	}
	_, err := s.Load(ctx)
	return true, err
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reset returns the store to its initial empty state.
func (s *Store) Reset() {
	s.update(func(st *State) { *st = State{Clients: []client.Client{}} })
	s.logger.Debug("client state reset")
}

// Subscribe returns a channel that receives every new state, starting with
// the current one. Slow readers only see the latest state.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, ch)
			close(ch)
		})
	}
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)

	snap := s.snapshotLocked()
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Clients = slices.Clone(st.Clients)
	return st
}

func indexOf(clients []client.Client, id int64) int {
	return slices.IndexFunc(clients, func(c client.Client) bool { return c.ID == id })
}

func find(clients []client.Client, id int64) (client.Client, bool) {
	if i := indexOf(clients, id); i >= 0 {
		return clients[i], true
	}
	return client.Client{}, false
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}

// Toasts adapts a notify.Service to Notifier.
func Toasts(s *notify.Service) Notifier {
	return toastNotifier{s}
}

type toastNotifier struct{ s *notify.Service }

func (n toastNotifier) Success(title, message string) { n.s.Success(title, message) }
func (n toastNotifier) Error(title, message string)   { n.s.Error(title, message) }
