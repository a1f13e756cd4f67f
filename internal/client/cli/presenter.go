package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/frostgate/frostgate/internal/client/gate"
)

// TermPresenter renders the controller's intents as terminal output. There
// are no real windows to move around; routes are tracked so the controller
// can still reason about the current surface, and presentation intents are
// printed so the user sees where the gate is sending them.
type TermPresenter struct {
	mu    sync.Mutex
	route gate.Route
	out   io.Writer
}

func NewTermPresenter(out io.Writer) *TermPresenter {
	return &TermPresenter{route: gate.RouteMain, out: out}
}

func (p *TermPresenter) CurrentRoute() gate.Route {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.route
}

func (p *TermPresenter) NavigateTo(route gate.Route) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.route = route
	fmt.Fprintf(p.out, "-> %s\n", route)
}

func (p *TermPresenter) EnterFullscreenMain() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, "[main surface]")
}

func (p *TermPresenter) EnterFixedSize(width, height int, resizable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[%dx%d surface]\n", width, height)
}
