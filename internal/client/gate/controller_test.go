package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/client/models"
	"github.com/frostgate/frostgate/internal/client/signup"
)

type fixedCall struct {
	width, height int
	resizable     bool
}

type fakePresenter struct {
	route       Route
	navigations []Route
	fullscreen  int
	fixed       []fixedCall
}

func (p *fakePresenter) CurrentRoute() Route { return p.route }
func (p *fakePresenter) NavigateTo(route Route) {
	p.navigations = append(p.navigations, route)
	p.route = route
}
func (p *fakePresenter) EnterFullscreenMain() { p.fullscreen++ }
func (p *fakePresenter) EnterFixedSize(w, h int, resizable bool) {
	p.fixed = append(p.fixed, fixedCall{w, h, resizable})
}

func (p *fakePresenter) lastNavigation() Route {
	if len(p.navigations) == 0 {
		return ""
	}
	return p.navigations[len(p.navigations)-1]
}

type fakeLicense struct {
	events  *[]string
	valid   bool
	checkFn func(ctx context.Context) bool
}

func (f *fakeLicense) Check(ctx context.Context) bool {
	*f.events = append(*f.events, "license.check")
	if f.checkFn != nil {
		return f.checkFn(ctx)
	}
	return f.valid
}

type fakeSessions struct {
	events *[]string
	valid  bool
	lastID int64
}

func (f *fakeSessions) Check(ctx context.Context, sessionID int64) bool {
	*f.events = append(*f.events, "sessions.check")
	f.lastID = sessionID
	return f.valid
}

type fakeUsers struct {
	events       *[]string
	user         *models.User
	err          error
	lastUsername string
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	*f.events = append(*f.events, "users.lookup")
	f.lastUsername = username
	return f.user, f.err
}

type fakeAuth struct {
	events *[]string

	session     *models.Session
	loginErr    error
	registerErr error
	logoutErr   error
	setQErr     error
	recoverErr  error

	lastUsername string
	lastPassword string
	lastAnswers  map[string]string
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*models.Session, error) {
	*f.events = append(*f.events, "auth.login")
	f.lastUsername, f.lastPassword = username, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) error {
	*f.events = append(*f.events, "auth.register")
	f.lastUsername, f.lastPassword = username, password
	return f.registerErr
}

func (f *fakeAuth) Logout(ctx context.Context, sessionID int64) error {
	*f.events = append(*f.events, "auth.logout")
	return f.logoutErr
}

func (f *fakeAuth) SetSecurityQuestions(ctx context.Context, username string, answers map[string]string) error {
	*f.events = append(*f.events, "auth.questions")
	f.lastUsername, f.lastAnswers = username, answers
	return f.setQErr
}

func (f *fakeAuth) RecoverPassword(ctx context.Context, username string, answers map[string]string, newPassword string) error {
	*f.events = append(*f.events, "auth.recover")
	f.lastUsername, f.lastAnswers, f.lastPassword = username, answers, newPassword
	return f.recoverErr
}

func (f *fakeAuth) Close() error { return nil }

type fakeCache struct {
	events *[]string

	pair     *models.CachedPair
	username string
	saveErr  error
	clearErr error
}

func (f *fakeCache) Save(ctx context.Context, session models.Session, user models.User) error {
	*f.events = append(*f.events, "cache.save")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.pair = &models.CachedPair{Session: session, User: user}
	return nil
}

func (f *fakeCache) Load(ctx context.Context) (*models.CachedPair, error) {
	*f.events = append(*f.events, "cache.load")
	return f.pair, nil
}

func (f *fakeCache) Clear(ctx context.Context) error {
	*f.events = append(*f.events, "cache.clear")
	if f.clearErr != nil {
		return f.clearErr
	}
	f.pair = nil
	return nil
}

func (f *fakeCache) LastUsername(ctx context.Context) (string, error) {
	return f.username, nil
}

func (f *fakeCache) SetLastUsername(ctx context.Context, username string) error {
	*f.events = append(*f.events, "cache.setLastUsername")
	f.username = username
	return nil
}

type harness struct {
	events    []string
	license   *fakeLicense
	sessions  *fakeSessions
	users     *fakeUsers
	auth      *fakeAuth
	cache     *fakeCache
	presenter *fakePresenter
	ctrl      *Controller
}

func newHarness() *harness {
	h := &harness{}
	h.license = &fakeLicense{events: &h.events, valid: true}
	h.sessions = &fakeSessions{events: &h.events, valid: true}
	h.users = &fakeUsers{events: &h.events}
	h.auth = &fakeAuth{events: &h.events}
	h.cache = &fakeCache{events: &h.events}
	h.presenter = &fakePresenter{}
	h.ctrl = New(Deps{
		License:   h.license,
		Sessions:  h.sessions,
		Users:     h.users,
		Auth:      h.auth,
		Cache:     h.cache,
		Presenter: h.presenter,
	})
	return h
}

func TestRefreshInvalidLicenseGoesToPurchase(t *testing.T) {
	h := newHarness()
	h.license.valid = false
	h.cache.pair = &models.CachedPair{Session: models.Session{ID: 7}}

	h.ctrl.Refresh(context.Background())

	require.Equal(t, StateLicenseInvalid, h.ctrl.CurrentState())
	require.Equal(t, RoutePurchase, h.presenter.lastNavigation())
	require.Equal(t, []fixedCall{{PurchaseWidth, PurchaseHeight, false}}, h.presenter.fixed)
	// The session side must not have run at all.
	require.NotContains(t, h.events, "sessions.check")
	require.NotContains(t, h.events, "cache.load")
}

func TestRefreshLicenseResolvesBeforeSessionCheck(t *testing.T) {
	h := newHarness()
	h.cache.pair = &models.CachedPair{
		Session: models.Session{ID: 42, UserID: 1, CreatedAt: time.Now()},
		User:    models.User{ID: 1, Username: "rivka"},
	}

	h.ctrl.Refresh(context.Background())

	require.Equal(t, []string{"license.check", "cache.load", "sessions.check"}, h.events)
	require.EqualValues(t, 42, h.sessions.lastID)
}

func TestRefreshValidCachedSessionAuthenticates(t *testing.T) {
	h := newHarness()
	h.presenter.route = RouteSignIn
	h.cache.pair = &models.CachedPair{
		Session: models.Session{ID: 42, UserID: 1},
		User:    models.User{ID: 1, Username: "rivka"},
	}

	h.ctrl.Refresh(context.Background())

	require.Equal(t, StateAuthenticated, h.ctrl.CurrentState())
	snap := h.ctrl.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.Equal(t, "rivka", snap.User.Username)
	require.Equal(t, RouteMain, h.presenter.lastNavigation())
	require.Equal(t, 1, h.presenter.fullscreen)
}

func TestRefreshAuthenticatedOnMainStaysPut(t *testing.T) {
	h := newHarness()
	h.presenter.route = RouteMain
	h.cache.pair = &models.CachedPair{
		Session: models.Session{ID: 42, UserID: 1},
		User:    models.User{ID: 1, Username: "rivka"},
	}

	h.ctrl.Refresh(context.Background())

	require.Equal(t, StateAuthenticated, h.ctrl.CurrentState())
	require.Empty(t, h.presenter.navigations)
	require.Zero(t, h.presenter.fullscreen)
}

func TestRefreshStaleSessionClearedThenLookup(t *testing.T) {
	h := newHarness()
	h.sessions.valid = false
	h.cache.pair = &models.CachedPair{Session: models.Session{ID: 9, UserID: 3}}
	h.cache.username = "rivka"
	h.users.user = &models.User{ID: 3, Username: "rivka"}

	h.ctrl.Refresh(context.Background())

	require.Nil(t, h.cache.pair)
	require.Equal(t, StateHasAccount, h.ctrl.CurrentState())
	require.Equal(t, "rivka", h.users.lastUsername)
	require.Equal(t, RouteSignIn, h.presenter.lastNavigation())
	require.Equal(t, []fixedCall{{SignInWidth, SignInHeight, false}}, h.presenter.fixed)
}

func TestRefreshNoAccountGoesToSignUp(t *testing.T) {
	h := newHarness()

	h.ctrl.Refresh(context.Background())

	require.Equal(t, StateNoAccount, h.ctrl.CurrentState())
	require.Equal(t, RouteSignUp, h.presenter.lastNavigation())
	require.Equal(t, []fixedCall{{SignUpWidth, SignUpHeight, false}}, h.presenter.fixed)
	// No remembered username means no directory call at all.
	require.NotContains(t, h.events, "users.lookup")
}

func TestRefreshLookupFailureFallsOpenToSignUp(t *testing.T) {
	h := newHarness()
	h.cache.username = "rivka"
	h.users.err = errors.New("directory down")

	h.ctrl.Refresh(context.Background())

	require.Equal(t, StateNoAccount, h.ctrl.CurrentState())
	require.Equal(t, RouteSignUp, h.presenter.lastNavigation())
}

func TestRefreshSkipsLookupOnEntrySurfaces(t *testing.T) {
	for _, route := range []Route{RouteSignIn, RouteSignUp} {
		h := newHarness()
		h.presenter.route = route
		h.cache.username = "rivka"

		h.ctrl.Refresh(context.Background())

		require.Equal(t, StateUnauthenticated, h.ctrl.CurrentState())
		require.NotContains(t, h.events, "users.lookup")
		require.Empty(t, h.presenter.navigations)
	}
}

func TestLoginPersistsBeforeStateUpdate(t *testing.T) {
	h := newHarness()
	h.auth.session = &models.Session{ID: 11, UserID: 4, CreatedAt: time.Now()}

	err := h.ctrl.Login(context.Background(), "rivka", "s3cret-pass")
	require.NoError(t, err)

	require.Equal(t, []string{"auth.login", "cache.save", "cache.setLastUsername"}, h.events)
	require.NotNil(t, h.cache.pair)
	require.EqualValues(t, 11, h.cache.pair.Session.ID)
	require.Equal(t, "rivka", h.cache.username)

	snap := h.ctrl.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.EqualValues(t, 4, snap.User.ID)
	require.Equal(t, RouteMain, h.presenter.lastNavigation())
	require.Equal(t, 1, h.presenter.fullscreen)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	h := newHarness()
	h.auth.loginErr = api.ErrAuthentication

	err := h.ctrl.Login(context.Background(), "rivka", "wrong")
	require.ErrorIs(t, err, api.ErrAuthentication)

	require.False(t, h.ctrl.Snapshot().IsAuthenticated)
	require.Nil(t, h.cache.pair)
	require.Empty(t, h.presenter.navigations)
}

func TestLoginSaveFailureAbortsBeforeNavigation(t *testing.T) {
	h := newHarness()
	h.auth.session = &models.Session{ID: 11, UserID: 4}
	h.cache.saveErr = errors.New("disk full")

	err := h.ctrl.Login(context.Background(), "rivka", "s3cret-pass")
	require.Error(t, err)

	require.False(t, h.ctrl.Snapshot().IsAuthenticated)
	require.Empty(t, h.presenter.navigations)
	require.Zero(t, h.presenter.fullscreen)
}

// readyWizard builds a sign-up wizard advanced to the questions step with
// valid data in every field.
func readyWizard(t *testing.T, h *harness) *signup.Wizard {
	t.Helper()
	w := h.ctrl.NewSignUpWizard()
	w.Username = "rivka"
	w.Password = "s3cret-pass"
	require.NoError(t, w.Next())
	for i := 0; i < signup.SetSize; i++ {
		w.Questions[i] = signup.Entry{Question: signup.Catalog[i], Answer: "answer"}
	}
	return w
}

func TestCompleteSignUpChainsLoginAfterBothCalls(t *testing.T) {
	h := newHarness()
	h.auth.session = &models.Session{ID: 21, UserID: 8}
	w := readyWizard(t, h)

	err := h.ctrl.CompleteSignUp(context.Background(), w)
	require.NoError(t, err)

	// Register and questions first; only then persistence, login and the
	// switch to the main surface.
	require.Equal(t, []string{
		"auth.register", "auth.questions",
		"cache.setLastUsername", "auth.login", "cache.save", "cache.setLastUsername",
	}, h.events)
	require.True(t, w.Submitted())
	require.True(t, h.ctrl.Snapshot().IsAuthenticated)
	require.Equal(t, "rivka", h.cache.username)
	require.Equal(t, RouteMain, h.presenter.lastNavigation())
	require.Equal(t, 1, h.presenter.fullscreen)
}

func TestCompleteSignUpRegisterFailureDoesNothingElse(t *testing.T) {
	h := newHarness()
	h.auth.registerErr = api.ErrRegistration
	w := readyWizard(t, h)

	err := h.ctrl.CompleteSignUp(context.Background(), w)
	require.ErrorIs(t, err, api.ErrRegistration)

	require.Equal(t, []string{"auth.register"}, h.events)
	require.Empty(t, h.cache.username)
	require.Empty(t, h.presenter.navigations)
}

func TestCompleteSignUpQuestionsFailureHoldsNavigationUntilRetry(t *testing.T) {
	h := newHarness()
	h.auth.session = &models.Session{ID: 21, UserID: 8}
	h.auth.setQErr = api.ErrTransient
	w := readyWizard(t, h)

	err := h.ctrl.CompleteSignUp(context.Background(), w)
	require.ErrorIs(t, err, api.ErrTransient)

	// The account exists but recovery setup failed: no login, no
	// navigation, no authenticated state.
	require.Equal(t, []string{"auth.register", "auth.questions"}, h.events)
	require.Empty(t, h.presenter.navigations)
	require.Zero(t, h.presenter.fullscreen)
	require.False(t, h.ctrl.Snapshot().IsAuthenticated)

	// The retry must not repeat the registration; a second create would be
	// rejected as a duplicate username.
	h.auth.setQErr = nil
	h.events = nil
	require.NoError(t, h.ctrl.CompleteSignUp(context.Background(), w))

	require.Equal(t, []string{
		"auth.questions",
		"cache.setLastUsername", "auth.login", "cache.save", "cache.setLastUsername",
	}, h.events)
	require.True(t, h.ctrl.Snapshot().IsAuthenticated)
	require.Equal(t, RouteMain, h.presenter.lastNavigation())
}

func TestLogoutCleansUpDespiteRemoteFailure(t *testing.T) {
	h := newHarness()
	h.ctrl.setLicense(true)
	h.auth.session = &models.Session{ID: 11, UserID: 4}
	require.NoError(t, h.ctrl.Login(context.Background(), "rivka", "s3cret-pass"))

	h.auth.logoutErr = api.ErrTransient
	h.ctrl.Logout(context.Background())

	require.Contains(t, h.events, "auth.logout")
	require.Contains(t, h.events, "cache.clear")
	require.Nil(t, h.cache.pair)
	require.False(t, h.ctrl.Snapshot().IsAuthenticated)
	require.Equal(t, StateUnauthenticated, h.ctrl.CurrentState())
	require.Equal(t, RouteCallback, h.presenter.lastNavigation())
}

func TestLogoutWithoutSessionSkipsRemoteCall(t *testing.T) {
	h := newHarness()
	h.ctrl.setLicense(true)

	h.ctrl.Logout(context.Background())

	require.NotContains(t, h.events, "auth.logout")
	require.Contains(t, h.events, "cache.clear")
	require.Equal(t, RouteCallback, h.presenter.lastNavigation())
}

func TestCloseCancelsInFlightRefresh(t *testing.T) {
	h := newHarness()
	h.license.checkFn = func(ctx context.Context) bool {
		require.NoError(t, h.ctrl.Close())
		<-ctx.Done()
		return true
	}

	h.ctrl.Refresh(context.Background())

	// The result of a cancelled check must not be applied.
	require.Equal(t, StateBootstrapping, h.ctrl.CurrentState())
	require.Empty(t, h.presenter.navigations)
}

func TestRefreshFreshInstallEndToEnd(t *testing.T) {
	h := newHarness()
	h.license.valid = false

	// First boot: no license artifact, everything funnels to purchase.
	h.ctrl.Refresh(context.Background())
	require.Equal(t, RoutePurchase, h.presenter.lastNavigation())

	// License obtained; next refresh lands on sign-up.
	h.license.valid = true
	h.presenter.route = RouteMain
	h.ctrl.Refresh(context.Background())
	require.Equal(t, StateNoAccount, h.ctrl.CurrentState())
	require.Equal(t, RouteSignUp, h.presenter.lastNavigation())

	// Sign-up completes and the user lands authenticated on main.
	h.auth.session = &models.Session{ID: 1, UserID: 1}
	require.NoError(t, h.ctrl.CompleteSignUp(context.Background(), readyWizard(t, h)))
	require.Equal(t, StateAuthenticated, h.ctrl.CurrentState())
	require.Equal(t, RouteMain, h.presenter.lastNavigation())
}
