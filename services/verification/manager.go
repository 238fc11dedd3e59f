package verification

import (
	"context"
	"errors"
	"sync"
	"time"

	"poolchill/api"
	"poolchill/services/session"
	"poolchill/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the life cycle position of one identity-check attempt.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateAwaitingUser
	StateVerified
	StateDeclined
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateAwaitingUser:
		return "awaiting_user"
	case StateVerified:
		return "verified"
	case StateDeclined:
		return "declined"
	case StateTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// ErrAuthRequired means Start was called without a usable access token; the
// user has to finish an earlier wizard step first.
var ErrAuthRequired = errors.New("verification: a valid access token is required")

// Config bundles the attempt timings.
type Config struct {
	// PollInterval is the spacing between status checks.
	PollInterval time.Duration
	// PollCeiling bounds one attempt; reaching it without a verified signal
	// ends the attempt as TimedOut.
	PollCeiling time.Duration
	// SuccessDelay postpones the completion callback so the success animation
	// can play.
	SuccessDelay time.Duration
}

// Manager drives one third-party identity-check handshake at a time: start a
// hosted session, open it for the user, poll until verified or the ceiling
// passes. Attempts are tagged so callbacks from a superseded attempt never
// touch a newer one.
type Manager struct {
	api    *api.Client
	boot   *session.Bootstrap
	opener Opener
	cfg    Config
	logger *zap.Logger

	// OnVerified fires once per verified attempt, after SuccessDelay.
	OnVerified func()
	// OnTimeout fires when an attempt exhausts the ceiling.
	OnTimeout func()

	mu           sync.Mutex
	state        State
	sessionID    string
	sessionURL   string
	popupBlocked bool
	deferred     bool
	attempt      string
	fired        bool
	cancelPoll   context.CancelFunc
	delayTimer   *time.Timer
}

// NewManager wires a Manager. Zero config fields fall back to the production
// timings (3s / 10m / 2s).
func NewManager(apiClient *api.Client, boot *session.Bootstrap, opener Opener, cfg Config) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.PollCeiling <= 0 {
		cfg.PollCeiling = 10 * time.Minute
	}
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	return &Manager{
		api:    apiClient,
		boot:   boot,
		opener: opener,
		cfg:    cfg,
		logger: utils.GetLogger(),
	}
}

// State returns the current attempt state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SessionID returns the backend identifier of the active attempt.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// SessionURL returns the hosted verification page of the active attempt, used
// as the manual fallback link when the popup was blocked.
func (m *Manager) SessionURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionURL
}

// PopupBlocked reports whether the browser window failed to open.
func (m *Manager) PopupBlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popupBlocked
}

// SetDeferred records the "verify later" choice. It does not change the
// attempt state; the flag travels with the final submission.
func (m *Manager) SetDeferred(deferred bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deferred = deferred
}

// Deferred reports whether the user chose to verify later.
func (m *Manager) Deferred() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deferred
}

// CheckExisting runs the one-shot mount check: with a session in place and the
// backend already reporting verified, the attempt jumps straight to Verified
// and the completion callback fires without any window or delay.
func (m *Manager) CheckExisting(ctx context.Context) {
	token := m.boot.AccessToken(ctx)
	if !utils.IsWellFormedToken(token) {
		return
	}
	verified, err := m.api.VerificationStatus(ctx, token)
	if err != nil || !verified {
		return
	}

	m.mu.Lock()
	m.state = StateVerified
	alreadyFired := m.fired
	m.fired = true
	callback := m.OnVerified
	m.mu.Unlock()

	if !alreadyFired && callback != nil {
		callback()
	}
}

// Start opens a fresh identity-check attempt: create the hosted session, show
// it to the user and begin polling. Any previous attempt is cancelled first.
// It returns ErrAuthRequired when no structurally valid access token is
// stored.
func (m *Manager) Start(ctx context.Context) error {
	token := m.boot.AccessToken(ctx)
	if !utils.IsWellFormedToken(token) {
		return ErrAuthRequired
	}

	m.stopTimers()

	attempt := uuid.New().String()
	m.mu.Lock()
	m.state = StateStarting
	m.attempt = attempt
	m.fired = false
	m.popupBlocked = false
	m.sessionID = ""
	m.sessionURL = ""
	m.mu.Unlock()

	resp, err := m.api.StartVerification(ctx, token)
	if err != nil {
		m.mu.Lock()
		if m.attempt == attempt {
			m.state = StateIdle
		}
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if m.attempt != attempt {
		// A newer attempt superseded this response while it was in flight.
		m.mu.Unlock()
		return nil
	}
	m.sessionID = resp.SessionID
	m.sessionURL = resp.URL
	m.mu.Unlock()

	opened := m.opener.Open(resp.URL)

	pollCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	if m.attempt != attempt {
		m.mu.Unlock()
		cancel()
		return nil
	}
	m.popupBlocked = !opened
	m.state = StateAwaitingUser
	m.cancelPoll = cancel
	m.mu.Unlock()

	if !opened {
		m.logger.Warn("Verification window blocked, falling back to manual link",
			zap.String("url", resp.URL))
	}

	go m.poll(pollCtx, attempt, token)
	return nil
}

// poll checks the status endpoint on a fixed interval until verified or the
// ceiling passes. Individual request failures are swallowed; only the ceiling
// stops the loop.
func (m *Manager) poll(ctx context.Context, attempt, token string) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(m.cfg.PollCeiling)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			m.finishTimedOut(attempt)
			return
		case <-ticker.C:
			verified, err := m.api.VerificationStatus(ctx, token)
			if err != nil {
				continue
			}
			if verified {
				m.finishVerified(attempt)
				return
			}
		}
	}
}

// ResolveApproved settles the active attempt as verified. The provider
// redirect and the poll loop race here; whichever lands first wins and the
// completion callback still fires exactly once.
func (m *Manager) ResolveApproved(sessionID string) {
	m.mu.Lock()
	if sessionID != "" && m.sessionID != "" && sessionID != m.sessionID {
		m.mu.Unlock()
		return
	}
	attempt := m.attempt
	m.mu.Unlock()
	m.finishVerified(attempt)
}

// ResolveDeclined settles the active attempt as declined and stops polling.
func (m *Manager) ResolveDeclined(sessionID string) {
	m.mu.Lock()
	if sessionID != "" && m.sessionID != "" && sessionID != m.sessionID {
		m.mu.Unlock()
		return
	}
	if m.attempt == "" || m.state == StateVerified {
		m.mu.Unlock()
		return
	}
	m.state = StateDeclined
	cancel := m.cancelPoll
	m.cancelPoll = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (m *Manager) finishVerified(attempt string) {
	m.mu.Lock()
	if m.attempt != attempt || m.fired {
		m.mu.Unlock()
		return
	}
	m.state = StateVerified
	m.fired = true
	cancel := m.cancelPoll
	m.cancelPoll = nil
	callback := m.OnVerified
	delay := m.cfg.SuccessDelay

	if callback != nil {
		m.delayTimer = time.AfterFunc(delay, func() {
			m.mu.Lock()
			stale := m.attempt != attempt
			m.mu.Unlock()
			if !stale {
				callback()
			}
		})
	}
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (m *Manager) finishTimedOut(attempt string) {
	m.mu.Lock()
	if m.attempt != attempt || m.state != StateAwaitingUser {
		m.mu.Unlock()
		return
	}
	m.state = StateTimedOut
	cancel := m.cancelPoll
	m.cancelPoll = nil
	callback := m.OnTimeout
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.logger.Warn("Identity verification timed out", zap.Duration("ceiling", m.cfg.PollCeiling))
	if callback != nil {
		callback()
	}
}

// stopTimers clears the poll loop and any pending success-delay timer.
func (m *Manager) stopTimers() {
	m.mu.Lock()
	cancel := m.cancelPoll
	m.cancelPoll = nil
	timer := m.delayTimer
	m.delayTimer = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if timer != nil {
		timer.Stop()
	}
}

// Cancel tears down the active attempt unconditionally: timers cleared, state
// back to Idle. Called on unmount and on backward navigation out of the
// identity step, so only one live attempt can ever exist.
func (m *Manager) Cancel() {
	m.stopTimers()
	m.mu.Lock()
	m.attempt = ""
	m.sessionID = ""
	m.sessionURL = ""
	m.popupBlocked = false
	m.state = StateIdle
	m.mu.Unlock()
}
