package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campusportal/internal/api"
)

// ErrInvalidCredentials marks a sign-in rejected for bad credentials, as
// opposed to a backend or transport failure. Callers render the two cases
// differently and never need a type switch.
var ErrInvalidCredentials = errors.New("invalid credentials")

const RoleAdmin = "admin"

// Session is the live view of one signed-in browser. It implements
// api.Credentials so the API client reads and writes tokens through it; the
// store behind it is the single owner of persisted state.
type Session struct {
	ID      string
	User    api.User
	Profile api.Profile

	store Store
	rec   Record
}

func (s *Session) AccessToken() string  { return s.rec.AccessToken }
func (s *Session) RefreshToken() string { return s.rec.RefreshToken }

func (s *Session) StoreAccessToken(ctx context.Context, token string) error {
	s.rec.AccessToken = token
	return s.store.Save(ctx, s.ID, &s.rec, 0)
}

// Invalidate drops the persisted record and the in-memory tokens together.
func (s *Session) Invalidate(ctx context.Context) error {
	s.rec = Record{}
	return s.store.Delete(ctx, s.ID)
}

func (s *Session) Role() string {
	return s.Profile.Role
}

// IsAdmin is strictly role == "admin": no hierarchy, no permission sets.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Profile.Role == RoleAdmin
}

// Manager owns the session lifecycle: bootstrap from the store, sign-in,
// sign-out, profile refresh. It holds no per-request state.
type Manager struct {
	store      Store
	client     *api.Client
	defaultTTL time.Duration
	logger     *slog.Logger
}

func NewManager(store Store, client *api.Client, defaultTTL time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		client:     client,
		defaultTTL: defaultTTL,
		logger:     logger.With(slog.String("component", "session")),
	}
}

// Bootstrap rehydrates a session from the store without any network call;
// the cached profile is trusted until the next explicit refresh. A missing
// record means anonymous; a corrupt one is deleted and also means anonymous.
func (m *Manager) Bootstrap(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	sess := &Session{ID: id, store: m.store, rec: *rec}
	if rec.AccessToken == "" ||
		json.Unmarshal(rec.User, &sess.User) != nil ||
		json.Unmarshal(rec.Profile, &sess.Profile) != nil {
		m.logger.Warn("clearing corrupt session record", slog.String("session_id", id))
		_ = m.store.Delete(ctx, id)
		return nil, nil
	}
	return sess, nil
}

// SignIn authenticates against the backend and persists the full record:
// both tokens plus the cached user and profile, all under one key.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		if isCredentialsError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("encoding user: %w", err)
	}
	profileJSON, err := json.Marshal(resp.Profile)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	sess := &Session{
		ID:      uuid.NewString(),
		User:    resp.User,
		Profile: resp.Profile,
		store:   m.store,
		rec: Record{
			AccessToken:  resp.Access,
			RefreshToken: resp.Refresh,
			User:         userJSON,
			Profile:      profileJSON,
		},
	}
	if err := m.store.Save(ctx, sess.ID, &sess.rec, m.sessionTTL(resp.Refresh)); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	m.logger.Info("signed in",
		slog.String("user", resp.User.Email),
		slog.String("role", resp.Profile.Role),
	)
	return sess, nil
}

// SignOut clears every persisted session field. The caller decides what the
// dead session means for navigation.
func (m *Manager) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	return sess.Invalidate(ctx)
}

// RefreshProfile re-fetches the profile and overwrites the cached copies.
func (m *Manager) RefreshProfile(ctx context.Context, sess *Session) error {
	resp, err := m.Client(sess).FetchProfile(ctx)
	if err != nil {
		return err
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	profileJSON, err := json.Marshal(resp.Profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	sess.User = resp.User
	sess.Profile = resp.Profile
	sess.rec.User = userJSON
	sess.rec.Profile = profileJSON
	return m.store.Save(ctx, sess.ID, &sess.rec, 0)
}

// Client returns the API client bound to the session's credentials, or the
// anonymous client for a nil session.
func (m *Manager) Client(sess *Session) *api.Client {
	if sess == nil {
		return m.client
	}
	return m.client.With(sess)
}

// sessionTTL derives the store expiry from the refresh JWT's exp claim, so
// the record dies with the token it depends on. The token is not verified
// here; it is opaque material owned by the backend.
func (m *Manager) sessionTTL(refreshToken string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(refreshToken, claims); err != nil {
		return m.defaultTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return m.defaultTTL
	}
	if ttl := time.Until(exp.Time); ttl > 0 {
		return ttl
	}
	return m.defaultTTL
}

// isCredentialsError matches the failure shapes the backend produces for a
// rejected login: a 401, or one of its known message phrases.
func isCredentialsError(err error) bool {
	if api.StatusOf(err) == 401 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"login failed",
		"invalid",
		"unauthorized",
		"unable to log in",
		"provided credentials",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
