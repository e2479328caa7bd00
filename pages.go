package main

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// page holds what every page controller depends on.
type page struct {
	logger  *zap.Logger
	api     LibraryAPI
	session TokenProvider
	notify  Notifier
}

// token returns the bearer token or ErrLoginRequired.
func (p *page) token() (string, error) {
	token := p.session.Token()
	if token == "" {
		return "", ErrLoginRequired
	}
	return token, nil
}

// fail reports err to the visitor then returns it.
func (p *page) fail(title string, err error) error {
	p.notify.Error(title, UserMessage(err))
	return err
}

// Authenticator is the part of the session the login forms drive.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	IsAuthenticated() bool
}

// CredentialsForm is the content of the login and register forms.
type CredentialsForm struct {
	Email    string
	Password string
}

// Validate rejects a form whose submit control would be disabled.
func (f CredentialsForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// SubmitLogin validates the form then logs in.
func SubmitLogin(ctx context.Context, auth Authenticator, notify Notifier, form CredentialsForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := auth.Login(ctx, strings.TrimSpace(form.Email), form.Password); err != nil {
		notify.Error("Login", UserMessage(err))
		return err
	}
	// the token is dropped when its profile refresh fails.
	if !auth.IsAuthenticated() {
		notify.Error("Login", ErrSessionRejected.Error())
		return ErrSessionRejected
	}
	notify.Success("Login", "Signed in")
	return nil
}

// SubmitRegister validates the form then registers and logs in.
func SubmitRegister(ctx context.Context, auth Authenticator, notify Notifier, form CredentialsForm) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if err := auth.Register(ctx, strings.TrimSpace(form.Email), form.Password); err != nil {
		notify.Error("Register", UserMessage(err))
		return err
	}
	if !auth.IsAuthenticated() {
		notify.Error("Register", ErrSessionRejected.Error())
		return ErrSessionRejected
	}
	notify.Success("Register", "Account created")
	return nil
}
