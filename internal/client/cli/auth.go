package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/synapsespace/synapsectl/internal/client/guard"
	"github.com/synapsespace/synapsectl/internal/client/session"
	"github.com/synapsespace/synapsectl/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and starts the login flow. If the server
// asks for a second factor the staged login is kept by the session manager
// and the user continues with the otp command.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter username or email"
	if last, err := a.profile.LastLogin(ctx); err == nil && last != "" {
		prompt = fmt.Sprintf("Enter username or email [%s]", last)
	}

	userName, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if userName == "" {
		if last, lerr := a.profile.LastLogin(ctx); lerr == nil {
			userName = last
		}
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	outcome, err := a.session.Login(ctx, userName, string(password))
	switch outcome {
	case session.LoginOTPRequired:
		fmt.Println("We sent a six-digit code to your email. Submit it with 'otp'.")
	case session.LoginOK:
		a.afterLogin(ctx, userName)
	default:
		fmt.Println(a.session.LastError())
		return err
	}
	return nil
}

// Otp submits the one-time code for a pending login.
func (a *App) Otp(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter the six-digit code", os.Stdout)
	if err != nil {
		return err
	}

	outcome, err := a.session.SubmitOTP(ctx, code)
	switch {
	case errors.Is(err, session.ErrNoPendingLogin):
		fmt.Println("No login is waiting for a code. Start with 'login'.")
		return err
	case outcome == session.LoginOK:
		u := a.session.CurrentUser()
		a.afterLogin(ctx, u.Username)
	case outcome == session.LoginFailed:
		fmt.Println(a.session.LastError())
		if a.session.AwaitingOTP() {
			fmt.Println("Try again with 'otp', or request a new code with 'resend'.")
		}
		return err
	}
	return nil
}

// Resend asks the server for a fresh one-time code. A client-side cooldown
// paces repeated requests.
func (a *App) Resend(ctx context.Context) error {
	msg, err := a.session.ResendOTP(ctx)
	if err != nil {
		if errors.Is(err, session.ErrResendCooldown) {
			fmt.Println("Please wait a minute before requesting another code.")
		} else if errors.Is(err, session.ErrNoPendingLogin) {
			fmt.Println("No login is waiting for a code. Start with 'login'.")
		} else {
			fmt.Printf("Could not resend the code: %v\n", err)
		}
		return err
	}
	fmt.Println(msg)
	return nil
}

// afterLogin records convenience data and greets the user.
func (a *App) afterLogin(ctx context.Context, userName string) {
	if err := a.profile.RememberLogin(ctx, userName); err != nil {
		a.log.Warn(ctx, "could not remember login", "error", err)
	}
	if u := a.session.CurrentUser(); u != nil {
		if err := a.profile.CacheProfile(ctx, u); err != nil {
			a.log.Warn(ctx, "could not cache profile", "error", err)
		}
		fmt.Printf("Signed in as %s.\n", u.Username)
	}
}

// Whoami prints the current account, its verification state, and what the
// member and admin route gates would decide for it. Falls back to the cached
// snapshot when the server is unreachable.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil && a.session.CheckSession(ctx) {
		u = a.session.CurrentUser()
	}

	if u == nil {
		cached, err := a.profile.CachedProfile(ctx)
		if err != nil {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("%s (cached, not signed in)\n", cached.Username)
		return nil
	}

	fmt.Printf("%s <%s>\n", u.Username, u.Email)
	fmt.Printf("  verification: %s\n", u.Verification().String())
	fmt.Printf("  member area:  %s\n", guard.Private(ctx, a.session).String())
	fmt.Printf("  admin area:   %s\n", guard.Admin(ctx, a.session).String())
	return nil
}

// Logout ends the session and clears the local cache. Local state is always
// cleared even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	if err := a.profile.ClearCache(ctx); err != nil {
		a.log.Warn(ctx, "could not clear local cache", "error", err)
	}
	fmt.Println("Signed out.")
	return nil
}
