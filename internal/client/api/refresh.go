package api

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/avidals/bocado/internal/logging"
)

// SessionExpiredFunc is invoked exactly once per failed renewal flight. The
// session controller registers its logout-and-notify handler here; this is
// the one error path that crosses component boundaries.
type SessionExpiredFunc func(ctx context.Context, err error)

// RefreshCoordinator guarantees single-flight credential renewal: however
// many requests hit a 401 concurrently, exactly one call reaches the renewal
// endpoint and every waiter observes the same outcome. The flight slot
// clears once settled, so a later expiry can start a new renewal.
type RefreshCoordinator struct {
	g     *Gateway
	creds CredentialSource
	log   logging.Logger

	flight singleflight.Group

	mu        sync.RWMutex
	onExpired SessionExpiredFunc
}

func newRefreshCoordinator(g *Gateway, creds CredentialSource, log logging.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{g: g, creds: creds, log: log}
}

// OnSessionExpired registers the handler fired when renewal fails for good.
func (rc *RefreshCoordinator) OnSessionExpired(fn SessionExpiredFunc) {
	rc.mu.Lock()
	rc.onExpired = fn
	rc.mu.Unlock()
}

// EnsureFresh returns a valid access credential, renewing it if necessary.
// Concurrent callers share one renewal call. On failure the session-expired
// handler has already run and the returned error is an auth error.
func (rc *RefreshCoordinator) EnsureFresh(ctx context.Context) (string, error) {
	v, err, _ := rc.flight.Do("refresh", func() (any, error) {
		// The renewal outcome is shared by every waiter, so it must not die
		// with whichever caller happened to start the flight.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rc.g.timeout)
		defer cancel()
		return rc.renew(fctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (rc *RefreshCoordinator) renew(ctx context.Context) (string, error) {
	refresh, ok := rc.creds.Refresh(ctx)
	if !ok {
		return "", rc.expire(ctx, sessionExpiredError())
	}

	var resp struct {
		Access string `json:"access"`
	}
	req := map[string]string{"refresh": refresh}
	if err := rc.g.PostPublic(ctx, "/users/login/refresh/", req, &resp); err != nil {
		rc.log.Warn(ctx, "credential renewal failed", "error", err)
		return "", rc.expire(ctx, err)
	}

	if err := rc.creds.SetAccess(ctx, resp.Access); err != nil {
		rc.log.Warn(ctx, "storing renewed credential failed", "error", err)
		return "", rc.expire(ctx, err)
	}

	rc.log.Info(ctx, "access credential renewed")
	return resp.Access, nil
}

// expire tears the session down through the registered handler and returns
// the auth error every waiter will see.
func (rc *RefreshCoordinator) expire(ctx context.Context, cause error) error {
	rc.mu.RLock()
	fn := rc.onExpired
	rc.mu.RUnlock()

	err := sessionExpiredError()
	if fn != nil {
		fn(ctx, cause)
	}
	return err
}
