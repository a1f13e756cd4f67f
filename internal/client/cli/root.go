package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/frostgate/frostgate/internal/client/gate"
)

func (a *App) getStatus() string {
	s := string(a.ctrl.CurrentState())
	if snap := a.ctrl.Snapshot(); snap.IsAuthenticated {
		s = snap.User.Username
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Frostgate (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("fg %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			switch a.ctrl.CurrentState() {
			case gate.StateAuthenticated:
				fmt.Println("Available commands: status, logout, refresh, exit")
			case gate.StateLicenseInvalid, gate.StateBootstrapping:
				fmt.Println("Available commands: status, activate, refresh, exit")
			default:
				fmt.Println("Available commands: status, login, signup, recover, activate, refresh, exit")
			}

		case "status":
			a.showStatus()
		case "login":
			a.Login(ctx)
		case "signup":
			a.SignUp(ctx)
		case "logout":
			a.Logout(ctx)
		case "recover":
			a.Recover(ctx)
		case "activate":
			a.Activate(ctx)
		case "refresh":
			a.ctrl.Refresh(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", parts[0])
		}
	}
}

func (a *App) showStatus() {
	state := a.ctrl.CurrentState()
	fmt.Println("State:", state)
	if snap := a.ctrl.Snapshot(); snap.IsAuthenticated {
		fmt.Printf("Signed in as %s (session %d)\n", snap.User.Username, snap.Session.ID)
	}
}
