package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/inboxd/inboxd/internal/gmailapi"
)

// DefaultScopes grants full read/modify access to the mailbox.
var DefaultScopes = []string{gmail.GmailModifyScope}

// GoogleFactory obtains Gmail sessions from OAuth application credentials
// plus a per-mailbox token file.
type GoogleFactory struct {
	// CredentialsFile is the OAuth 2.0 client secrets JSON.
	CredentialsFile string
	Scopes          []string
	Log             *slog.Logger

	// Authorize runs the human-in-the-loop consent step. Defaults to the
	// terminal prompt flow; tests substitute their own.
	Authorize func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

var _ Factory = (*GoogleFactory)(nil)

// Obtain loads, refreshes, or interactively acquires the credential at
// credentialPath, persists it back, and returns a session bound to the
// account's verified email address.
func (f *GoogleFactory) Obtain(ctx context.Context, credentialPath string) (*Session, error) {
	log := f.Log
	if log == nil {
		log = slog.Default()
	}

	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	tok, loadErr := tokenFromFile(credentialPath)
	switch {
	case loadErr != nil:
		// Absent or unparseable: only the interactive flow can help.
		log.Info("no stored credential, starting authorization flow", "path", credentialPath)
		tok, err = f.authorize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthFlow, err)
		}
	case !tok.Valid():
		tok, err = f.renew(ctx, cfg, tok, log)
		if err != nil {
			return nil, err
		}
	}

	if err := saveToken(credentialPath, tok); err != nil {
		// The session still works for this process; next start re-auths.
		log.Warn("persist credential", "path", credentialPath, "error", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil || profile.EmailAddress == "" {
		if err == nil {
			err = fmt.Errorf("profile has no email address")
		}
		return nil, fmt.Errorf("%w: %v", ErrIdentity, err)
	}

	log.Info("session ready", "email", profile.EmailAddress)
	return &Session{Email: profile.EmailAddress, Mail: gmailapi.New(svc)}, nil
}

// renew refreshes an expired token, falling back to the interactive flow
// when the refresh token is missing or rejected.
func (f *GoogleFactory) renew(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, log *slog.Logger) (*oauth2.Token, error) {
	if tok.RefreshToken != "" {
		log.Info("refreshing expired credential")
		fresh, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			return fresh, nil
		}
		log.Warn("refresh failed, starting authorization flow", "error", err)
		fresh, flowErr := f.authorize(ctx, cfg)
		if flowErr != nil {
			return nil, fmt.Errorf("%w: refresh: %v; flow: %v", ErrRefresh, err, flowErr)
		}
		return fresh, nil
	}

	log.Info("credential expired without refresh token, starting authorization flow")
	fresh, err := f.authorize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFlow, err)
	}
	return fresh, nil
}

func (f *GoogleFactory) loadConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(f.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read application credentials %s: %w", f.CredentialsFile, err)
	}
	scopes := f.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse application credentials: %w", err)
	}
	return cfg, nil
}

func (f *GoogleFactory) authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	if f.Authorize != nil {
		return f.Authorize(ctx, cfg)
	}
	return authorizeFromTerminal(ctx, cfg)
}

// authorizeFromTerminal prints the consent URL and exchanges the pasted
// authorization code. Blocks until the user responds; callers needing a
// deadline must cancel ctx.
func authorizeFromTerminal(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}
