package delivery

import (
	"sync"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/logger"
)

// DefaultDebounce is the settling period applied to each channel while
// connected. Rapid successive sends within it coalesce to the newest
// payload.
const DefaultDebounce = 50 * time.Millisecond

type pendingCommand struct {
	cmd   Command
	timer *time.Timer
}

// Manager owns the per-channel pending slots and debounce timers. One
// mutex guards all channel state, so the coalescing invariant holds in
// multi-goroutine hosts.
type Manager struct {
	session  Session
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCommand
	order   []string
	closed  bool
}

func NewManager(session Session, debounce time.Duration) *Manager {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	m := &Manager{
		session:  session,
		debounce: debounce,
		pending:  make(map[string]*pendingCommand),
	}

	session.OnStateChange(m.handleState)

	return m
}

// Send schedules delivery of cmd on the logical channel. At most one
// command is held per channel: a newer command supersedes an undelivered
// older one. While disconnected the command is parked until the session
// reconnects.
func (m *Manager) Send(channel string, cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	p, exists := m.pending[channel]
	if exists {
		if p.timer != nil {
			p.timer.Stop()
			p.timer = nil
		}
		p.cmd = cmd
	} else {
		p = &pendingCommand{cmd: cmd}
		m.pending[channel] = p
		m.order = append(m.order, channel)
	}

	if m.session.State() != StateConnected {
		logger.Debug().
			Str("channel", channel).
			Str("kind", string(cmd.Kind)).
			Str("label", cmd.Label).
			Msg("Renderer unavailable, command queued")
		return
	}

	p.timer = time.AfterFunc(m.debounce, func() {
		m.dispatch(channel)
	})
}

// Flush dispatches every pending command immediately, in channel-arrival
// order. Called on reconnect; safe to call while connected.
func (m *Manager) Flush() {
	m.mu.Lock()
	if m.closed || m.session.State() != StateConnected {
		m.mu.Unlock()
		return
	}

	cmds := make([]Command, 0, len(m.order))
	for _, channel := range m.order {
		p, ok := m.pending[channel]
		if !ok {
			continue
		}
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(m.pending, channel)
		cmds = append(cmds, p.cmd)
	}
	m.order = m.order[:0]
	m.mu.Unlock()

	for _, cmd := range cmds {
		m.deliver(cmd)
	}
}

// Close stops all timers and drops undelivered commands.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for channel, p := range m.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(m.pending, channel)
	}
	m.order = nil
}

// dispatch fires when a channel's debounce timer elapses. If the session
// dropped in the meantime the command stays parked for the next flush.
func (m *Manager) dispatch(channel string) {
	m.mu.Lock()
	p, ok := m.pending[channel]
	if !ok || m.closed {
		m.mu.Unlock()
		return
	}
	if m.session.State() != StateConnected {
		p.timer = nil
		m.mu.Unlock()
		return
	}

	delete(m.pending, channel)
	m.removeFromOrder(channel)
	cmd := p.cmd
	m.mu.Unlock()

	m.deliver(cmd)
}

// deliver is fire-and-forget: a failed send is logged and the command is
// not requeued.
func (m *Manager) deliver(cmd Command) {
	if err := m.session.Send(cmd); err != nil {
		logger.Warn().
			Err(err).
			Str("kind", string(cmd.Kind)).
			Str("label", cmd.Label).
			Msg("Failed to dispatch command")
	}
}

func (m *Manager) handleState(state State) {
	logger.Debug().Str("state", state.String()).Msg("Renderer session state changed")
	if state == StateConnected {
		m.Flush()
	}
}

func (m *Manager) removeFromOrder(channel string) {
	for i, c := range m.order {
		if c == channel {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
