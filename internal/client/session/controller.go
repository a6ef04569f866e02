package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avidals/bocado/internal/client/api"
	"github.com/avidals/bocado/internal/client/models"
	"github.com/avidals/bocado/internal/client/notify"
	"github.com/avidals/bocado/internal/client/profile"
	"github.com/avidals/bocado/internal/logging"
)

// Resetter is implemented by every domain store; the controller resets them
// on logout so a later login never sees another user's data.
type Resetter interface {
	Reset()
}

// Controller owns the login/logout transitions. It is the only writer of the
// authenticated state, and the component the renewal coordinator escalates
// to when the refresh credential is no longer good.
type Controller struct {
	gw      *api.Gateway
	tokens  *TokenStore
	profile *profile.Store
	bus     *notify.Bus
	log     logging.Logger

	mu     sync.Mutex
	stores []Resetter
	cancel context.CancelFunc
}

func NewController(gw *api.Gateway, tokens *TokenStore, profileStore *profile.Store, bus *notify.Bus, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	c := &Controller{gw: gw, tokens: tokens, profile: profileStore, bus: bus, log: log}
	gw.Refresher().OnSessionExpired(c.sessionExpired)
	return c
}

// RegisterStores adds domain stores to be reset on logout. The profile store
// is registered implicitly.
func (c *Controller) RegisterStores(stores ...Resetter) {
	c.mu.Lock()
	c.stores = append(c.stores, stores...)
	c.mu.Unlock()
}

// Login authenticates against the backend. On success both credentials are
// stored atomically and the user profile is resolved; a failure leaves the
// session unauthenticated and returns the structured error (an auth error
// for bad credentials).
func (c *Controller) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := map[string]string{"email": email, "password": password}
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := c.gw.PostPublic(ctx, "/users/login/", req, &pair); err != nil {
		return nil, err
	}

	if err := c.tokens.SetPair(ctx, pair.Access, pair.Refresh); err != nil {
		return nil, err
	}
	c.bindSession()

	if err := c.profile.Fetch(ctx); err != nil {
		return nil, err
	}

	user := c.profile.User()
	c.log.Info(ctx, "logged in", "email", email)
	return user, nil
}

// Logout tears the session down: credentials cleared, in-flight
// authenticated requests cancelled, domain stores reset. Idempotent.
func (c *Controller) Logout(ctx context.Context) {
	_ = c.tokens.Clear(context.WithoutCancel(ctx))

	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	stores := make([]Resetter, len(c.stores))
	copy(stores, c.stores)
	c.mu.Unlock()

	c.gw.BindSession(nil)
	if cancel != nil {
		cancel()
	}

	c.profile.Reset()
	for _, s := range stores {
		s.Reset()
	}
	c.log.Info(ctx, "logged out")
}

// Bootstrap restores a session at application start. With a stored pair it
// resolves the profile through the gateway (renewing the access credential
// if needed); any failure reads as logged out and is never surfaced as an
// error. Returns whether the session is authenticated.
func (c *Controller) Bootstrap(ctx context.Context) bool {
	if _, _, ok := c.tokens.Pair(ctx); !ok {
		return false
	}
	c.bindSession()

	if err := c.profile.Fetch(ctx); err != nil {
		// Renewal failure already tore the session down via sessionExpired;
		// for anything else keep the stored pair so the next start retries.
		c.log.Warn(ctx, "bootstrap failed, treating as logged out", "error", err)
		return false
	}
	c.log.Info(ctx, "session restored")
	return true
}

// IsAuthenticated reports whether a non-expired access credential and a
// resolved user are both present.
func (c *Controller) IsAuthenticated() bool {
	if c.profile.User() == nil {
		return false
	}
	access, ok := c.tokens.Access(context.Background())
	if !ok {
		return false
	}
	return !accessExpired(access)
}

// User returns the resolved user, or nil.
func (c *Controller) User() *models.User {
	return c.profile.User()
}

// Register creates a new account. The caller decides what to do on success
// (typically prompt for login once the verification email is handled).
func (c *Controller) Register(ctx context.Context, fields map[string]any) error {
	return c.gw.PostPublic(ctx, "/users/register/", fields, nil)
}

// RequestPasswordReset asks the backend to send a reset email.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	return c.gw.PostPublic(ctx, "/users/password-reset/", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset completes a reset with the emailed token.
func (c *Controller) ConfirmPasswordReset(ctx context.Context, token, password, password2 string) error {
	req := map[string]string{"token": token, "password": password, "password2": password2}
	return c.gw.PostPublic(ctx, "/users/password-reset/confirm/", req, nil)
}

// VerifyEmail confirms an address with the emailed token.
func (c *Controller) VerifyEmail(ctx context.Context, token string) error {
	return c.gw.GetPublic(ctx, "/users/verify-email/"+token+"/", nil, nil)
}

// bindSession starts a fresh session context; authenticated requests issued
// from now on die when it is cancelled.
func (c *Controller) bindSession() {
	sctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	old := c.cancel
	c.cancel = cancel
	c.mu.Unlock()

	if old != nil {
		old()
	}
	c.gw.BindSession(sctx)
}

// sessionExpired is the renewal coordinator's escalation path: the refresh
// credential is no longer good, so the session is forcibly ended.
func (c *Controller) sessionExpired(ctx context.Context, cause error) {
	c.log.Warn(ctx, "session expired", "cause", cause)
	c.Logout(ctx)
	if c.bus != nil {
		c.bus.Show("Your session has expired. Please log in again.", notify.KindError, 0)
	}
}

// accessExpired inspects the JWT exp claim without verifying the signature;
// the client has no key and only needs the timestamp. Tokens without a
// readable exp are left for the server to judge.
func accessExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
