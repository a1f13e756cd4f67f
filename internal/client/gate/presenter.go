package gate

// Route identifies a navigation target inside the application shell.
type Route string

const (
	RouteMain     Route = "/"
	RoutePurchase Route = "/purchase"
	RouteSignIn   Route = "/sign-in"
	RouteSignUp   Route = "/sign-up"
	RouteCallback Route = "/callback"
)

// Window presets for the pre-authentication surfaces. The main surface is
// fullscreen and has no fixed preset.
const (
	SignInWidth  = 400
	SignInHeight = 600

	SignUpWidth  = 800
	SignUpHeight = 600

	PurchaseWidth  = 640
	PurchaseHeight = 480
)

// Presenter receives the controller's intents. Implementations render them
// however the surface allows (a windowed shell resizes and navigates, the
// terminal client prints prompts). The controller never manipulates the
// surface directly and never waits on the presenter.
type Presenter interface {
	// CurrentRoute reports the active navigation target. The controller
	// reads it to decide whether a redirect intent is needed at all.
	CurrentRoute() Route

	// NavigateTo asks the surface to switch to the given route.
	NavigateTo(route Route)

	// EnterFullscreenMain prepares the surface for the main experience.
	EnterFullscreenMain()

	// EnterFixedSize prepares a fixed pre-auth surface of the given size.
	EnterFixedSize(width, height int, resizable bool)
}

// preAuthRoute reports whether route belongs to the pre-authentication
// surfaces. An authenticated user sitting on one of these is redirected to
// the main surface; one already on main is left alone.
func preAuthRoute(route Route) bool {
	switch route {
	case RouteSignIn, RouteSignUp, RoutePurchase, RouteCallback:
		return true
	}
	return false
}
