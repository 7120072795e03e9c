package hub

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wsTimeout bounds the dial handshake and every read on the session.
const wsTimeout = 20 * time.Second

// SessionState tracks progress through the hub's authenticate-then-command
// protocol. The message order is fixed: the hub sends auth_required, the
// client answers with its token, the hub confirms, and only then may a
// single command be exchanged.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateAwaitingAuthChallenge
	StateAuthenticating
	StateAuthenticated
	StateCompleted
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingAuthChallenge:
		return "awaiting-auth-challenge"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// wsConn is the slice of *websocket.Conn the session needs. Tests substitute
// a fake to drive individual transitions without a network.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	SetReadDeadline(t time.Time) error
	Close() error
}

// Session is one single-use WebSocket exchange with the hub. Sessions are
// never pooled or reused: Call opens a connection, runs the auth handshake,
// sends one command, and closes the transport on every exit path.
type Session struct {
	cfg   Config
	conn  wsConn
	state SessionState
}

// NewSession prepares a session for one command. No connection is opened
// until Call.
func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg, state: StateConnecting}
}

// State reports the session's current protocol state.
func (s *Session) State() SessionState { return s.state }

// Call runs the full handshake, sends cmd, and returns the decoded response.
// The command object must carry its own id and type fields. Only transport
// and auth failures surface here; callers still check the application-level
// "success" field in the result.
func (s *Session) Call(ctx context.Context, cmd any) (map[string]any, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return s.run(cmd)
}

// run drives the handshake and the single command exchange. The transport
// is closed unconditionally, whatever path exits first.
func (s *Session) run(cmd any) (map[string]any, error) {
	defer s.conn.Close()

	if err := s.awaitAuthChallenge(); err != nil {
		return nil, err
	}
	if err := s.authenticate(); err != nil {
		return nil, err
	}
	return s.exchange(cmd)
}

// connect dials the derived WebSocket URL. When certificate verification is
// disabled the relaxed TLS config applies to this dial only; the REST client
// is deliberately unaffected.
func (s *Session) connect(ctx context.Context) error {
	if s.state != StateConnecting {
		return s.fail(&TransportError{Op: "connect", Err: fmt.Errorf("connect in state %s", s.state)})
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: wsTimeout,
	}
	url := s.cfg.WebSocketURL()
	if strings.HasPrefix(url, "wss://") && !s.cfg.VerifySSL {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return s.fail(&TransportError{Op: "connect", Err: err})
	}
	s.conn = conn
	s.state = StateAwaitingAuthChallenge
	return nil
}

// awaitAuthChallenge consumes the hub's auth_required notification. The
// content is discarded; the protocol only requires that it is read before
// the token is sent.
func (s *Session) awaitAuthChallenge() error {
	if s.state != StateAwaitingAuthChallenge {
		return s.fail(&TransportError{Op: "await auth challenge", Err: fmt.Errorf("called in state %s", s.state)})
	}
	if _, _, err := s.read(); err != nil {
		return s.fail(&TransportError{Op: "read auth challenge", Err: err})
	}
	s.state = StateAuthenticating
	return nil
}

// authenticate sends the access token and checks the hub's verdict.
func (s *Session) authenticate() error {
	if s.state != StateAuthenticating {
		return s.fail(&TransportError{Op: "authenticate", Err: fmt.Errorf("called in state %s", s.state)})
	}
	auth := map[string]any{"type": "auth", "access_token": s.cfg.Token}
	if err := s.conn.WriteJSON(auth); err != nil {
		return s.fail(&TransportError{Op: "send auth", Err: err})
	}
	_, data, err := s.read()
	if err != nil {
		return s.fail(&TransportError{Op: "read auth result", Err: err})
	}
	var verdict struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &verdict); err != nil {
		return s.fail(&TransportError{Op: "decode auth result", Err: err})
	}
	if verdict.Type != "auth_ok" {
		return s.fail(&AuthError{ResponseType: verdict.Type})
	}
	s.state = StateAuthenticated
	return nil
}

// exchange sends the session's single command and decodes the reply.
func (s *Session) exchange(cmd any) (map[string]any, error) {
	if s.state != StateAuthenticated {
		return nil, s.fail(&TransportError{Op: "exchange", Err: fmt.Errorf("called in state %s", s.state)})
	}
	if err := s.conn.WriteJSON(cmd); err != nil {
		return nil, s.fail(&TransportError{Op: "send command", Err: err})
	}
	_, data, err := s.read()
	if err != nil {
		return nil, s.fail(&TransportError{Op: "read command result", Err: err})
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, s.fail(&TransportError{Op: "decode command result", Err: err})
	}
	s.state = StateCompleted
	return result, nil
}

func (s *Session) read() (int, []byte, error) {
	// A deadline that cannot be set would leave the following read unbounded.
	if err := s.conn.SetReadDeadline(time.Now().Add(wsTimeout)); err != nil {
		return 0, nil, err
	}
	return s.conn.ReadMessage()
}

func (s *Session) fail(err error) error {
	s.state = StateFailed
	return err
}
