package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/bradykim7/recipebot/internal/workbench"
	"go.uber.org/zap"
)

// Key identifies a workbench session: one per user per channel.
type Key struct {
	ChannelID string
	UserID    string
}

type entry struct {
	wb       *workbench.Workbench
	lastSeen time.Time
}

// Manager owns the live workbench sessions.
type Manager struct {
	mu          sync.Mutex
	sessions    map[Key]*entry
	delay       time.Duration
	idleTimeout time.Duration
	log         *zap.Logger
	now         func() time.Time
	newRand     func() *rand.Rand
}

// Options configures a Manager.
type Options struct {
	Delay       time.Duration
	IdleTimeout time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
	NewRand     func() *rand.Rand
}

// NewManager creates a session manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Manager{
		sessions:    make(map[Key]*entry),
		delay:       opts.Delay,
		idleTimeout: opts.IdleTimeout,
		log:         opts.Logger.Named("sessions"),
		now:         opts.Now,
		newRand:     opts.NewRand,
	}
}

// Get returns the session for key, creating it on first use.
func (m *Manager) Get(key Key) *workbench.Workbench {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[key]; ok {
		e.lastSeen = m.now()
		return e.wb
	}

	wb := workbench.New(workbench.Options{
		Delay:     m.delay,
		Generator: workbench.NewGenerator(m.newRand(), m.now),
		Logger:    m.log.With(zap.String("channel_id", key.ChannelID), zap.String("user_id", key.UserID)),
	})
	m.sessions[key] = &entry{wb: wb, lastSeen: m.now()}

	m.log.Debug("Session created",
		zap.String("channel_id", key.ChannelID),
		zap.String("user_id", key.UserID))
	return wb
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(key Key) (*workbench.Workbench, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.wb, true
}

// Reset closes and forgets the session for key.
func (m *Manager) Reset(key Key) bool {
	m.mu.Lock()
	e, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()

	if ok {
		e.wb.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout.
// Sessions with a generation in flight are kept.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}

	cutoff := m.now().Add(-m.idleTimeout)
	var expired []*workbench.Workbench

	m.mu.Lock()
	for key, e := range m.sessions {
		if e.lastSeen.After(cutoff) || e.wb.Snapshot().Generating {
			continue
		}
		expired = append(expired, e.wb)
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	for _, wb := range expired {
		wb.Close()
	}
	if len(expired) > 0 {
		m.log.Info("Expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.log.Info("Starting session sweeper", zap.Duration("interval", interval))

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			m.log.Info("Stopping session sweeper")
			return
		}
	}
}

// Close tears down every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[Key]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.wb.Close()
	}
	m.log.Info("Closed all sessions", zap.Int("count", len(sessions)))
}
