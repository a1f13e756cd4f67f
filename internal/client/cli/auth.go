package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/frostgate/frostgate/internal/client/api"
	"github.com/frostgate/frostgate/internal/client/signup"
	"github.com/frostgate/frostgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and hands them to the gate controller. The
// password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.ctrl.Login(ctx, username, string(password)); err != nil {
		switch {
		case errors.Is(err, api.ErrAuthentication):
			fmt.Println("Invalid username or password.")
		case errors.Is(err, api.ErrTransient):
			fmt.Println("Server unavailable, try again later.")
		default:
			fmt.Println("Login failed:", err)
		}
		return err
	}

	fmt.Println("Signed in.")
	return nil
}

// SignUp runs the two-step wizard interactively: account details first,
// then the three security questions. Validation errors send the user back
// to fix the offending field instead of abandoning the flow.
func (a *App) SignUp(ctx context.Context) error {
	wizard := a.ctrl.NewSignUpWizard()

	for {
		username, err := getSimpleText(a.reader, "Choose a username (3+ characters)", os.Stdout)
		if err != nil {
			return err
		}
		password, err := getPassword("Choose a password (8+ characters)", os.Stdout)
		if err != nil {
			return err
		}

		wizard.Username = username
		wizard.Password = string(password)
		common.WipeByteArray(password)

		if err := wizard.Next(); err != nil {
			fmt.Println("Please check your input:", err)
			continue
		}
		break
	}

	for slot := 0; slot < signup.SetSize; slot++ {
		if err := a.fillQuestionSlot(wizard, slot); err != nil {
			return err
		}
	}

	if err := a.ctrl.CompleteSignUp(ctx, wizard); err != nil {
		switch {
		case errors.Is(err, api.ErrRegistration):
			fmt.Println("Registration failed:", err)
		case errors.Is(err, api.ErrTransient):
			fmt.Println("Server unavailable, try again later.")
		default:
			fmt.Println("Sign-up failed:", err)
		}
		return err
	}

	fmt.Println("Account created.")
	return nil
}

// fillQuestionSlot prompts for one security question and its answer,
// retrying until the slot validates.
func (a *App) fillQuestionSlot(wizard *signup.Wizard, slot int) error {
	for {
		options := wizard.Questions.AvailableOptions(slot)
		fmt.Printf("Security question %d of %d:\n", slot+1, signup.SetSize)
		for i, q := range options {
			fmt.Printf("  %d. %s\n", i+1, q)
		}

		choice, err := getSimpleText(a.reader, "Pick a question by number", os.Stdout)
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(options) {
			fmt.Println("Please enter a number from the list.")
			continue
		}

		answer, err := getSimpleText(a.reader, "Your answer", os.Stdout)
		if err != nil {
			return err
		}

		wizard.Questions[slot] = signup.Entry{Question: options[n-1], Answer: answer}
		if err := wizard.Questions.ValidateSlot(slot); err != nil {
			fmt.Println("Please check your input:", err)
			continue
		}
		return nil
	}
}

// Logout ends the current session. Cleanup always happens locally even when
// the server cannot be reached, so this never reports an error.
func (a *App) Logout(ctx context.Context) {
	a.ctrl.Logout(ctx)
	fmt.Println("Signed out.")
}

// Recover walks the password recovery flow: username, the three security
// answers, then the new password.
func (a *App) Recover(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	answers := make(map[string]string, signup.SetSize)
	for i := 0; i < signup.SetSize; i++ {
		question, err := getSimpleText(a.reader, fmt.Sprintf("Security question %d of %d (exact text)", i+1, signup.SetSize), os.Stdout)
		if err != nil {
			return err
		}
		answer, err := getSimpleText(a.reader, "Your answer", os.Stdout)
		if err != nil {
			return err
		}
		answers[question] = answer
	}

	newPassword, err := getPassword("New password (8+ characters)", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	if err := a.ctrl.RecoverPassword(ctx, username, answers, string(newPassword)); err != nil {
		switch {
		case errors.Is(err, api.ErrRecovery):
			fmt.Println("Recovery failed: answers did not match.")
		case errors.Is(err, api.ErrTransient):
			fmt.Println("Server unavailable, try again later.")
		default:
			fmt.Println("Recovery failed:", err)
		}
		return err
	}

	fmt.Println("Password updated, you can sign in now.")
	return nil
}

// Activate stores a license key locally and re-runs the gate so the new
// artifact is validated immediately.
func (a *App) Activate(ctx context.Context) error {
	key, err := getSimpleText(a.reader, "Paste your license key", os.Stdout)
	if err != nil {
		return err
	}
	if key == "" {
		fmt.Println("No key entered.")
		return nil
	}

	if err := a.artifacts.Save(key); err != nil {
		fmt.Println("Could not store the license key:", err)
		return err
	}

	a.ctrl.Refresh(ctx)
	return nil
}
