package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/frostgate/frostgate/internal/client/models"
	"github.com/frostgate/frostgate/internal/client/services"
	"github.com/frostgate/frostgate/internal/client/signup"
	"github.com/frostgate/frostgate/internal/client/store"
	"github.com/frostgate/frostgate/internal/logging"
)

// LicenseChecker answers whether a valid license is present. Any failure
// along the way reads as "not licensed".
type LicenseChecker interface {
	Check(ctx context.Context) bool
}

// SessionChecker answers whether a previously issued session is still good.
type SessionChecker interface {
	Check(ctx context.Context, sessionID int64) bool
}

// UserDirectory looks a user up by username. A miss is (nil, nil).
type UserDirectory interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Deps carries everything the controller composes. All fields are required
// except Log, which defaults to a no-op logger.
type Deps struct {
	License   LicenseChecker
	Sessions  SessionChecker
	Users     UserDirectory
	Auth      services.AuthService
	Cache     store.Cache
	Presenter Presenter
	Log       logging.Logger
}

// Controller owns the gate state machine. It is the only writer of
// AuthState; everything else observes it through Snapshot and CurrentState.
type Controller struct {
	license   LicenseChecker
	sessions  SessionChecker
	users     UserDirectory
	auth      services.AuthService
	cache     store.Cache
	presenter Presenter
	log       logging.Logger

	baseCtx context.Context
	closeFn context.CancelFunc

	runMu sync.Mutex // serializes Refresh pipelines

	mu           sync.Mutex
	licenseKnown bool
	licenseValid bool
	account      accountStatus
	state        AuthState
}

func New(deps Deps) *Controller {
	log := deps.Log
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		license:   deps.License,
		sessions:  deps.Sessions,
		users:     deps.Users,
		auth:      deps.Auth,
		cache:     deps.Cache,
		presenter: deps.Presenter,
		log:       log,
		baseCtx:   ctx,
		closeFn:   cancel,
	}
}

// Close tears the controller down. In-flight pipelines are cancelled and
// will not mutate state once cancellation is observed.
func (c *Controller) Close() error {
	c.closeFn()
	if c.auth != nil {
		return c.auth.Close()
	}
	return nil
}

// scope ties a caller context to the controller lifetime, so Close cancels
// whatever the pipeline is waiting on.
func (c *Controller) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.baseCtx, cancel)
	return ctx, func() { stop(); cancel() }
}

// Snapshot returns a copy of the current authentication state.
func (c *Controller) Snapshot() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentState derives the gate state. License standing always wins over
// session standing.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.licenseKnown:
		return StateBootstrapping
	case !c.licenseValid:
		return StateLicenseInvalid
	case c.state.IsAuthenticated:
		return StateAuthenticated
	case c.account == accountExists:
		return StateHasAccount
	case c.account == accountMissing:
		return StateNoAccount
	default:
		return StateUnauthenticated
	}
}

// Refresh runs the startup pipeline: the license gate first, and only when
// it passes, the session gate. The ordering is structural; the session side
// cannot run while license standing is unknown or negative.
func (c *Controller) Refresh(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	ctx, cancel := c.scope(ctx)
	defer cancel()

	if !c.licensed() {
		valid := c.license.Check(ctx)
		if ctx.Err() != nil {
			return
		}
		c.setLicense(valid)
		if !valid {
			c.log.Info(ctx, "license missing or rejected, directing to purchase")
			c.presenter.EnterFixedSize(PurchaseWidth, PurchaseHeight, false)
			c.presenter.NavigateTo(RoutePurchase)
			return
		}
	}

	c.resolveSession(ctx)
}

// resolveSession restores a cached session if one validates, and otherwise
// routes the user toward sign-in or sign-up based on the account lookup.
func (c *Controller) resolveSession(ctx context.Context) {
	pair, err := c.cache.Load(ctx)
	if err != nil {
		c.log.Warn(ctx, "reading cached session", "error", err)
	}
	if ctx.Err() != nil {
		return
	}

	if pair != nil {
		valid := c.sessions.Check(ctx, pair.Session.ID)
		if ctx.Err() != nil {
			return
		}
		if valid {
			c.setAuthenticated(&pair.User, &pair.Session)
			if preAuthRoute(c.presenter.CurrentRoute()) {
				c.presenter.EnterFullscreenMain()
				c.presenter.NavigateTo(RouteMain)
			}
			return
		}
		c.log.Info(ctx, "cached session no longer valid, clearing")
		if err := c.cache.Clear(ctx); err != nil {
			c.log.Warn(ctx, "clearing stale session", "error", err)
		}
	}

	c.setUnauthenticated()

	// The sign-in and sign-up surfaces drive themselves; re-running the
	// lookup there would fight the user mid-flow.
	route := c.presenter.CurrentRoute()
	if route == RouteSignIn || route == RouteSignUp {
		return
	}

	username, err := c.cache.LastUsername(ctx)
	if err != nil {
		c.log.Warn(ctx, "reading last username", "error", err)
	}

	var user *models.User
	if username != "" {
		user, err = c.users.GetUserByUsername(ctx, username)
		if err != nil {
			// A failed lookup counts as no account; the user lands on
			// sign-up rather than nowhere.
			c.log.Warn(ctx, "user lookup failed", "username", username, "error", err)
			user = nil
		}
	}
	if ctx.Err() != nil {
		return
	}

	if user != nil {
		c.setAccount(accountExists)
		c.presenter.EnterFixedSize(SignInWidth, SignInHeight, false)
		c.presenter.NavigateTo(RouteSignIn)
		return
	}
	c.setAccount(accountMissing)
	c.presenter.EnterFixedSize(SignUpWidth, SignUpHeight, false)
	c.presenter.NavigateTo(RouteSignUp)
}

// Login authenticates, persists the session, and only then flips the
// in-memory state. A failed save aborts the login before any state or
// navigation change; the next attempt starts clean.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	ctx, cancel := c.scope(ctx)
	defer cancel()

	session, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	user := models.User{ID: session.UserID, Username: username}
	if err := c.cache.Save(ctx, *session, user); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	if err := c.cache.SetLastUsername(ctx, username); err != nil {
		c.log.Warn(ctx, "remembering username", "error", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	c.setAuthenticated(&user, session)
	c.presenter.EnterFullscreenMain()
	c.presenter.NavigateTo(RouteMain)
	return nil
}

// NewSignUpWizard returns a sign-up wizard backed by the raw credential
// operations. Submitting it registers the account and stores the security
// questions, nothing else; CompleteSignUp chains authentication and
// navigation once both calls have gone through.
func (c *Controller) NewSignUpWizard() *signup.Wizard {
	return signup.NewWizard(c.auth)
}

// CompleteSignUp finalizes a sign-up. Registration and question setup must
// both succeed before any state or navigation change; only then is the
// username remembered and a login chained so the fresh account lands
// authenticated on the main surface. A failed submit leaves the wizard
// resumable, and a registration that already went through is not repeated
// on the next attempt.
func (c *Controller) CompleteSignUp(ctx context.Context, w *signup.Wizard) error {
	ctx, cancel := c.scope(ctx)
	defer cancel()

	if err := w.Submit(ctx); err != nil {
		return err
	}
	if err := c.cache.SetLastUsername(ctx, w.Username); err != nil {
		c.log.Warn(ctx, "remembering username", "error", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return c.Login(ctx, w.Username, w.Password)
}

// RecoverPassword forwards a recovery attempt.
func (c *Controller) RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error {
	ctx, cancel := c.scope(ctx)
	defer cancel()
	return c.auth.RecoverPassword(ctx, username, answers, newPassword)
}

// Logout ends the session. The remote revocation is best effort; the local
// cache and in-memory state are cleaned up no matter what, so the user
// always lands unauthenticated.
func (c *Controller) Logout(ctx context.Context) {
	ctx, cancel := c.scope(ctx)
	defer cancel()

	snap := c.Snapshot()
	if snap.Session != nil {
		if err := c.auth.Logout(ctx, snap.Session.ID); err != nil {
			c.log.Warn(ctx, "remote logout failed, continuing local cleanup", "error", err)
		}
	}

	// Cleanup must survive a cancelled caller context.
	if err := c.cache.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Warn(ctx, "clearing session cache", "error", err)
	}
	c.setUnauthenticated()
	c.presenter.NavigateTo(RouteCallback)
}

func (c *Controller) licensed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.licenseKnown && c.licenseValid
}

func (c *Controller) setLicense(valid bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.licenseKnown = true
	c.licenseValid = valid
}

func (c *Controller) setAuthenticated(user *models.User, session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AuthState{IsAuthenticated: true, User: user, Session: session}
}

func (c *Controller) setUnauthenticated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AuthState{}
	c.account = accountUnknown
}

func (c *Controller) setAccount(s accountStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = s
}
