// Package service implements the client CRUD rules on top of a
// store.Repository: sanitising, validation and the duplicate-email check.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"clientdesk/internal/client"
	"clientdesk/internal/store"
)

// Options tunes the service rules.
type Options struct {
	// UniqueEmail rejects a create or update whose email another client
	// already uses.
	UniqueEmail bool
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Clients is the client CRUD service.
type Clients struct {
	repo   store.Repository
	logger *zap.Logger
	opts   Options

	// writeMu makes the duplicate check and the write one step.
	writeMu sync.Mutex
}

// New creates a Clients service.
func New(repo store.Repository, logger *zap.Logger, opts Options) (*Clients, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Clients{repo: repo, logger: logger, opts: opts}, nil
}

// List returns every client.
func (s *Clients) List(ctx context.Context) ([]client.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	s.logger.Info("fetching all clients", zap.Int("count", len(clients)))
	return clients, nil
}

// Get returns one client or client.ErrNotFound.
func (s *Clients) Get(ctx context.Context, id int64) (client.Client, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		s.logger.Warn("client not found", zap.Int64("requested_id", id))
		return client.Client{}, err
	}
	if err != nil {
		return client.Client{}, fmt.Errorf("get client %d: %w", id, err)
	}
	return c, nil
}

// Ping checks the repository is reachable.
func (s *Clients) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Count returns the number of clients.
func (s *Clients) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Create validates in and stores a new client.
func (s *Clients) Create(ctx context.Context, in client.Input) (client.Client, error) {
	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		s.logger.Warn("client validation failed", zap.Error(err))
		return client.Client{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.checkEmail(ctx, in.Email, 0); err != nil {
		return client.Client{}, err
	}

	created, err := s.repo.Create(ctx, client.New(in, s.opts.Now().UTC()))
	if err != nil {
		return client.Client{}, fmt.Errorf("create client: %w", err)
	}
	s.logger.Info("client created",
		zap.Int64("client_id", created.ID),
		zap.String("client_name", created.Name),
	)
	return created, nil
}

// Update validates in and replaces the fields of client id.
func (s *Clients) Update(ctx context.Context, id int64, in client.Input) (client.Client, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.repo.Get(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		s.logger.Warn("update failed - client not found", zap.Int64("requested_id", id))
		return client.Client{}, err
	}
	if err != nil {
		return client.Client{}, fmt.Errorf("get client %d: %w", id, err)
	}

	in = in.Sanitized()
	if err := in.Validate(); err != nil {
		s.logger.Warn("update validation failed", zap.Int64("client_id", id), zap.Error(err))
		return client.Client{}, err
	}
	if err := s.checkEmail(ctx, in.Email, id); err != nil {
		return client.Client{}, err
	}

	updated, err := s.repo.Update(ctx, current.Apply(in, s.opts.Now().UTC()))
	if err != nil {
		return client.Client{}, fmt.Errorf("update client %d: %w", id, err)
	}
	s.logger.Info("client updated",
		zap.Int64("client_id", updated.ID),
		zap.String("client_name", updated.Name),
	)
	return updated, nil
}

// Delete removes client id.
func (s *Clients) Delete(ctx context.Context, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		s.logger.Warn("delete failed - client not found", zap.Int64("requested_id", id))
		return err
	}
	if err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	s.logger.Info("client deleted", zap.Int64("client_id", id))
	return nil
}

// checkEmail returns client.ErrDuplicateEmail when a client other than
// self already uses email. self is 0 on create.
func (s *Clients) checkEmail(ctx context.Context, email string, self int64) error {
	if !s.opts.UniqueEmail {
		return nil
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, client.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID == self {
		return nil
	}
	s.logger.Warn("duplicate email attempted",
		zap.String("email", email),
		zap.Int64("conflicting_client_id", existing.ID),
	)
	return client.ErrDuplicateEmail
}
