package renderer

import (
	"context"
	"sync"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/delivery"
	"codeberg.org/avatarlab/morphctl/internal/errors"
	"codeberg.org/avatarlab/morphctl/internal/logger"
	"github.com/gorilla/websocket"
)

const (
	dialTimeout      = 5 * time.Second
	writeTimeout     = 5 * time.Second
	reconnectBackoff = 2 * time.Second
)

// frame is the wire format for one command: a kind discriminator plus a
// kind-specific payload object.
type frame struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Session maintains a WebSocket connection to the remote renderer and
// exposes the disconnected/connecting/connected state machine consumed
// by the delivery queue. It reconnects with a fixed backoff until closed.
type Session struct {
	url string

	mu        sync.Mutex
	conn      *websocket.Conn
	state     delivery.State
	callbacks []func(delivery.State)
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewSession(url string) (*Session, error) {
	errFactory := errors.New()
	if url == "" {
		return nil, errFactory.New(ErrInvalidURL)
	}

	return &Session{
		url:   url,
		state: delivery.StateDisconnected,
		done:  make(chan struct{}),
	}, nil
}

// Connect starts the dial/reconnect loop. It returns immediately; state
// transitions are observable via OnStateChange.
func (s *Session) Connect(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	errFactory := errors.New()

	for {
		if ctx.Err() != nil {
			return
		}

		s.setState(delivery.StateConnecting)

		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.url, nil)
		cancel()
		if err != nil {
			s.setState(delivery.StateDisconnected)
			logger.Debug().
				Err(errFactory.Wrap(ErrDialFailed, err)).
				Str("url", s.url).
				Msg("Renderer dial failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectBackoff):
			}
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		logger.Info().Str("url", s.url).Msg("Renderer session established")
		s.setState(delivery.StateConnected)

		// Reading detects the peer closing; inbound frames carry nothing
		// this layer interprets.
		s.readUntilClosed(ctx, conn)

		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()

		s.setState(delivery.StateDisconnected)

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (s *Session) readUntilClosed(ctx context.Context, conn *websocket.Conn) {
	for {
		if ctx.Err() != nil {
			conn.Close()
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			logger.Debug().Err(err).Msg("Renderer session dropped")
			return
		}
	}
}

// State returns the current connection state.
func (s *Session) State() delivery.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Send writes one command frame. Fire-and-forget: no response is awaited.
func (s *Session) Send(cmd delivery.Command) error {
	errFactory := errors.New()

	s.mu.Lock()
	conn := s.conn
	state := s.state
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return errFactory.New(ErrSessionClosed)
	}
	if state != delivery.StateConnected || conn == nil {
		return errFactory.New(ErrNotConnected)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := conn.WriteJSON(frame{Kind: string(cmd.Kind), Payload: cmd.Payload}); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	return nil
}

// OnStateChange registers a callback fired on every state transition.
func (s *Session) OnStateChange(fn func(delivery.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Close terminates the session and stops reconnecting.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if cancel != nil {
		cancel()
		<-s.done
	}

	return nil
}

func (s *Session) setState(state delivery.State) {
	s.mu.Lock()
	if s.state == state || s.closed {
		s.mu.Unlock()
		return
	}
	s.state = state
	callbacks := append([]func(delivery.State){}, s.callbacks...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(state)
	}
}
