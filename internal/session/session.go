package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/internal/api"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
	"github.com/syahrullah26/dewaunitedstore/internal/nav"
)

var (
	// ErrNotLoggedIn is returned by operations that need a token when there is none.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrPasswordMismatch is returned by Register when the confirmation differs.
	ErrPasswordMismatch = errors.New("password confirmation does not match")

	// ErrEmptyProfile is returned when /me/update answers without a profile.
	ErrEmptyProfile = errors.New("backend returned no profile")

	// ErrSuperseded is returned when the token changed while a request was in
	// flight, so its result belongs to a session that no longer exists.
	ErrSuperseded = errors.New("session changed during request")
)

// State is the lifecycle position of a Session.
type State int

const (
	// Anonymous has no token.
	Anonymous State = iota
	// Authenticating has a token whose user has not been resolved yet.
	Authenticating
	// Authenticated has both a token and a resolved user.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Doer issues API requests. *api.Client implements it.
type Doer interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// CartResetter is the cart state that must be dropped with the session.
type CartResetter interface {
	ClearCart()
}

// Session holds the bearer token and the resolved user. It implements
// api.Authenticator so the client can read the token and report 401s.
type Session struct {
	client Doer
	tokens TokenStore
	nav    nav.Navigator
	cart   CartResetter

	mu        sync.RWMutex
	token     string
	user      *models.UserProfile
	addresses []models.Address
}

var _ api.Authenticator = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithNavigator sets where session expiry redirects are sent.
func WithNavigator(n nav.Navigator) Option {
	return func(s *Session) {
		s.nav = n
	}
}

// WithCart binds cart state that is cleared on logout and expiry.
func WithCart(c CartResetter) Option {
	return func(s *Session) {
		s.cart = c
	}
}

// New creates a session hydrated from tokens. A stored token puts the session
// in Authenticating until FetchUser resolves the user.
func New(client Doer, tokens TokenStore, opts ...Option) *Session {
	s := &Session{
		client: client,
		tokens: tokens,
		nav:    nav.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}

	token, err := tokens.Load()
	if err != nil {
		log.Debug().Err(err).Msg("no persisted session, starting anonymous")
		return s
	}
	s.token = token

	log.Debug().Msg("hydrated persisted session token")

	return s
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the resolved user, or nil.
func (s *Session) User() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Addresses returns the last loaded address list.
func (s *Session) Addresses() []models.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Address, len(s.addresses))
	copy(out, s.addresses)
	return out
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.token == "":
		return Anonymous
	case s.user == nil:
		return Authenticating
	default:
		return Authenticated
	}
}

// IsLoggedIn returns true when a token is held.
func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// IsUser returns true when the resolved user is a storefront customer.
func (s *Session) IsUser() bool {
	return s.User().HasRole(models.RoleUser)
}

// Login exchanges credentials for a token and user. On failure the session
// is left untouched and the backend error is returned as is.
func (s *Session) Login(ctx context.Context, email, password string) error {
	req := models.LoginRequest{Email: email, Password: password}
	if err := models.Validate(req); err != nil {
		return err
	}

	var resp models.AuthResponse
	if err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/login", Body: req}, &resp); err != nil {
		return err
	}

	return s.establish(resp)
}

// Register creates an account and logs it in. Only name, email, phone and
// password are sent; the confirmation is checked here.
func (s *Session) Register(ctx context.Context, form models.RegisterForm) error {
	if err := models.Validate(form); err != nil {
		return err
	}
	if form.Password != form.PasswordConfirm {
		return ErrPasswordMismatch
	}

	var resp models.AuthResponse
	if err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/register", Body: form.Payload()}, &resp); err != nil {
		return err
	}

	return s.establish(resp)
}

// establish validates an auth response, persists the token and then swaps
// token and user in a single step.
func (s *Session) establish(resp models.AuthResponse) error {
	if err := models.Validate(resp); err != nil {
		return fmt.Errorf("unexpected auth response: %w", err)
	}

	if err := s.tokens.Save(resp.Token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	user := resp.User

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("session established")

	return nil
}

// RefreshUser fetches /me and replaces the user. The error is returned to the
// caller; FetchUser is the best-effort variant.
func (s *Session) RefreshUser(ctx context.Context) (*models.UserProfile, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var user models.UserProfile
	if err := s.client.Do(ctx, api.Request{Path: "/me"}, &user); err != nil {
		return nil, err
	}
	if err := models.Validate(user); err != nil {
		return nil, fmt.Errorf("unexpected profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A logout or new login while /me was in flight wins.
	if s.token != token {
		return nil, ErrSuperseded
	}
	s.user = &user

	u := user
	return &u, nil
}

// FetchUser resolves the current user if a token is held. Any failure logs
// the session out; the error itself is deliberately dropped.
func (s *Session) FetchUser(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	if _, err := s.RefreshUser(ctx); err != nil {
		// Only the session that issued /me may be logged out by its failure.
		if errors.Is(err, ErrSuperseded) || s.Token() != token {
			log.Debug().Err(err).Msg("user refresh outlived its session, ignoring")
			return
		}
		log.Debug().Err(err).Msg("user refresh failed, logging out")
		s.Logout(ctx)
	}
}

// Logout tells the backend (ignoring any failure) and then clears token,
// user, addresses, cart and the persisted token unconditionally.
func (s *Session) Logout(ctx context.Context) {
	if s.IsLoggedIn() {
		if err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/logout"}, nil); err != nil {
			log.Debug().Err(err).Msg("logout notification failed, clearing locally")
		}
	}

	s.reset()
	s.clearPersisted()

	log.Info().Msg("logged out")
}

// Expire handles a 401 from any authenticated call: local state is cleared
// once per token and the client is sent to the login route. The backend is
// not notified since it has already rejected the token.
func (s *Session) Expire(ctx context.Context) {
	if !s.reset() {
		return
	}
	s.clearPersisted()

	log.Info().Msg("session expired")

	s.nav.Navigate(ctx, nav.LoginPath)
}

// UpdateProfile is the form sent to /me/update. Empty fields are not sent.
type UpdateProfile struct {
	Name   string
	Email  string
	Phone  string
	Avatar *api.File
}

func (p UpdateProfile) body() *api.Multipart {
	m := &api.Multipart{Fields: map[string]string{}}
	if p.Name != "" {
		m.Fields["name"] = p.Name
	}
	if p.Email != "" {
		m.Fields["email"] = p.Email
	}
	if p.Phone != "" {
		m.Fields["phone"] = p.Phone
	}
	if p.Avatar != nil {
		m.Files = append(m.Files, *p.Avatar)
	}
	return m
}

// UpdateProfile sends profile changes and replaces the user with the result.
func (s *Session) UpdateProfile(ctx context.Context, update UpdateProfile) (*models.UserProfile, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var resp models.ProfileUpdateResponse
	if err := s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/me/update", Body: update.body()}, &resp); err != nil {
		return nil, err
	}

	profile := resp.Profile()
	if profile == nil {
		return nil, ErrEmptyProfile
	}
	if err := models.Validate(*profile); err != nil {
		return nil, fmt.Errorf("unexpected profile: %w", err)
	}

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.user = profile
	s.mu.Unlock()

	u := *profile
	return &u, nil
}

// LoadAddresses fetches the saved addresses and keeps them on the session.
func (s *Session) LoadAddresses(ctx context.Context) ([]models.Address, error) {
	if !s.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	var resp models.Envelope[[]models.Address]
	if err := s.client.Do(ctx, api.Request{Path: "/address"}, &resp); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.addresses = resp.Data
	s.mu.Unlock()

	return s.Addresses(), nil
}

// reset drops in-memory state and the cart. It returns false if there was
// no token to drop.
func (s *Session) reset() bool {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.user = nil
	s.addresses = nil
	s.mu.Unlock()

	if s.cart != nil {
		s.cart.ClearCart()
	}

	return hadToken
}

func (s *Session) clearPersisted() {
	if err := s.tokens.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed to clear persisted session token")
	}
}
