package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// getPassword is an indirection so tests can bypass the terminal.
var getPassword = GetPassword

// Register asks for the account details and submits a registration. The
// server emails a verification code; the email is remembered for Verify.
func (a *App) Register(ctx context.Context) error {
	req := &api.RegisterRequest{}

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter full name", &req.Name},
		{"Enter username", &req.Username},
		{"Enter email", &req.Email},
		{"Enter date of birth (YYYY-MM-DD)", &req.DateOfBirth},
	}

	for _, p := range prompts {
		v, err := GetSimpleText(a.reader, p.text, a.out)
		if err != nil {
			return a.report(err)
		}
		*p.dst = v
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return a.report(common.ErrPasswordMismatch)
	}

	req.Password = string(password)
	req.ConfirmPassword = string(confirm)

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.Register(rctx, req); err != nil {
		return a.report(err)
	}

	a.pendingEmail = req.Email
	fmt.Fprintf(a.out, "Verification code sent to %s. Use 'verify' to complete registration.\n", req.Email)
	return nil
}

// Verify submits the emailed code. An empty email answer reuses the address
// of the last registration.
func (a *App) Verify(ctx context.Context) error {
	prompt := "Enter email"
	if a.pendingEmail != "" {
		prompt = fmt.Sprintf("Enter email [%s]", a.pendingEmail)
	}
	email, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return a.report(err)
	}
	if email == "" {
		email = a.pendingEmail
	}

	otp, err := GetSimpleText(a.reader, "Enter verification code", a.out)
	if err != nil {
		return a.report(err)
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.VerifyOtp(rctx, email, otp); err != nil {
		return a.report(err)
	}

	if email == a.pendingEmail {
		a.pendingEmail = ""
	}
	fmt.Fprintln(a.out, "Account verified. You can now log in.")
	return nil
}

// Login asks for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return a.report(err)
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.Login(rctx, userName, password); err != nil {
		return a.report(err)
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Refresh rotates the session tokens.
func (a *App) Refresh(ctx context.Context) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.Refresh(rctx); err != nil {
		if errors.Is(err, client.ErrNotLoggedIn) || errors.Is(err, common.ErrInvalidToken) {
			a.userName = ""
		}
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Session refreshed")
	return nil
}

// Logout ends every session of the user on the server.
func (a *App) Logout(ctx context.Context) error {
	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.Logout(rctx); err != nil {
		return a.report(err)
	}

	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
