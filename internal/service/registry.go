package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/scoring"
)

// Registry lazily creates and loads one Controller per owner. Controllers
// live for the life of the process.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	cfg         RegistryConfig
}

// RegistryConfig holds the dependencies shared by every controller
type RegistryConfig struct {
	Store          Store
	Cache          SnapshotCache
	Notices        *NoticeHub
	Evaluator      *scoring.Evaluator
	Now            func() time.Time
	Location       *time.Location
	StreakLookback int
	StoreTimeout   time.Duration
	Logger         logrus.FieldLogger
}

// NewRegistry creates a new registry
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Evaluator == nil {
		cfg.Evaluator = scoring.NewEvaluator(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Registry{
		controllers: make(map[string]*Controller),
		cfg:         cfg,
	}
}

// Get returns the owner's controller, loading it on first use. A failed
// remote load is logged and the controller is returned with its cached
// state.
func (r *Registry) Get(ctx context.Context, ownerID string) (*Controller, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	r.mu.Lock()
	if c, ok := r.controllers[ownerID]; ok {
		r.mu.Unlock()
		return c, nil
	}

	c := NewController(ControllerConfig{
		OwnerID:        ownerID,
		Store:          r.cfg.Store,
		Cache:          r.cfg.Cache,
		Notices:        r.cfg.Notices,
		Evaluator:      r.cfg.Evaluator,
		Now:            r.cfg.Now,
		Location:       r.cfg.Location,
		StreakLookback: r.cfg.StreakLookback,
		StoreTimeout:   r.cfg.StoreTimeout,
		Logger:         r.cfg.Logger,
	})
	// Hold the controller lock until loaded so concurrent callers wait
	// for the hydrated state.
	c.mu.Lock()
	r.controllers[ownerID] = c
	r.mu.Unlock()

	err := c.loadLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		r.cfg.Logger.WithError(err).WithField("owner_id", ownerID).Warn("controller loaded from cache only")
	}
	return c, nil
}

// Peek returns an already-loaded controller without loading one
func (r *Registry) Peek(ownerID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[ownerID]
	return c, ok
}

// Owners returns the loaded owner ids in sorted order
func (r *Registry) Owners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		owners = append(owners, id)
	}
	sort.Strings(owners)
	return owners
}

// Each calls fn for every loaded controller
func (r *Registry) Each(fn func(*Controller)) {
	for _, id := range r.Owners() {
		if c, ok := r.Peek(id); ok {
			fn(c)
		}
	}
}

// Len returns the number of loaded controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
