// Package mail wraps the outbound mail integrations: the OAuth2 Gmail
// gateway, the plain SMTP fallback transport, and the per-actor sender
// resolution the newsletter dispatcher relies on.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/lexhaven/clientdesk/internal/api/metrics"
	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// maxFetchResults is the provider-side cap on a single listing call; larger
// requests are silently bounded to it.
const maxFetchResults = 500

const defaultFetchResults = 100

// GmailConfig carries the OAuth application credentials. Empty credentials
// leave the gateway constructed but disabled.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GmailGateway implements ports.MailboxGateway against the Gmail API. It
// holds only the immutable OAuth app configuration; per-user credentials are
// passed into every call and a request-scoped client is built from them, so
// concurrent calls under different identities can never observe each other's
// tokens.
type GmailGateway struct {
	cfg *oauth2.Config // nil when credentials were absent at startup
	log zerolog.Logger
}

// NewGmailGateway constructs the gateway. Missing credentials are not fatal:
// the gateway marks itself unconfigured and every operation reports
// ErrMailboxNotConfigured.
func NewGmailGateway(cfg GmailConfig, log zerolog.Logger) *GmailGateway {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		log.Warn().Msg("mailbox credentials absent, gateway disabled")
		return &GmailGateway{log: log}
	}
	return &GmailGateway{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailReadonlyScope, gmail.GmailSendScope},
		},
		log: log,
	}
}

func (g *GmailGateway) Configured() bool {
	return g.cfg != nil
}

// AuthURL returns the consent URL. Offline access plus a forced consent
// prompt guarantees a refresh token on every authorization, and previously
// granted scopes are preserved.
func (g *GmailGateway) AuthURL(state string) (string, error) {
	if g.cfg == nil {
		return "", domain.ErrMailboxNotConfigured
	}
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	), nil
}

// ExchangeCode trades an authorization code for a token set.
func (g *GmailGateway) ExchangeCode(ctx context.Context, code string) (*domain.MailboxTokens, error) {
	if g.cfg == nil {
		return nil, domain.ErrMailboxNotConfigured
	}

	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		metrics.MailboxCallsTotal.WithLabelValues("exchange", "error").Inc()
		g.log.Error().Err(err).Msg("oauth code exchange failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExchangeFailed, err)
	}
	metrics.MailboxCallsTotal.WithLabelValues("exchange", "ok").Inc()
	return fromOAuthToken(tok), nil
}

// FetchMessages lists messages matching opts and fetches each one in full.
// The second return value carries a rotated token set, or nil when the
// provider did not refresh anything; callers persist it explicitly.
func (g *GmailGateway) FetchMessages(ctx context.Context, tokens *domain.MailboxTokens, opts ports.FetchOptions) (*ports.FetchResult, *domain.MailboxTokens, error) {
	svc, ts, err := g.service(ctx, tokens)
	if err != nil {
		return nil, nil, err
	}

	max := opts.MaxResults
	if max <= 0 {
		max = defaultFetchResults
	}
	if max > maxFetchResults {
		max = maxFetchResults
	}

	call := svc.Users.Messages.List("me").MaxResults(max).Context(ctx)
	if opts.Query != "" {
		call = call.Q(opts.Query)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	list, err := call.Do()
	if err != nil {
		metrics.MailboxCallsTotal.WithLabelValues("fetch", "error").Inc()
		return nil, nil, g.mapError("list messages", err)
	}

	result := &ports.FetchResult{
		Messages:           make([]ports.MailMessage, 0, len(list.Messages)),
		NextPageToken:      list.NextPageToken,
		ResultSizeEstimate: list.ResultSizeEstimate,
	}
	for _, ref := range list.Messages {
		msg, err := svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			metrics.MailboxCallsTotal.WithLabelValues("fetch", "error").Inc()
			return nil, nil, g.mapError("get message", err)
		}
		result.Messages = append(result.Messages, decodeMessage(msg))
	}

	metrics.MailboxCallsTotal.WithLabelValues("fetch", "ok").Inc()
	return result, rotatedTokens(ts, tokens), nil
}

// Profile returns the connected mailbox's address. A 401 here is how stale
// stored tokens are detected; there is no local expiry check.
func (g *GmailGateway) Profile(ctx context.Context, tokens *domain.MailboxTokens) (*ports.MailboxProfile, *domain.MailboxTokens, error) {
	svc, ts, err := g.service(ctx, tokens)
	if err != nil {
		return nil, nil, err
	}

	profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		metrics.MailboxCallsTotal.WithLabelValues("profile", "error").Inc()
		return nil, nil, g.mapError("get profile", err)
	}

	metrics.MailboxCallsTotal.WithLabelValues("profile", "ok").Inc()
	return &ports.MailboxProfile{
		EmailAddress:  profile.EmailAddress,
		MessagesTotal: profile.MessagesTotal,
		ThreadsTotal:  profile.ThreadsTotal,
	}, rotatedTokens(ts, tokens), nil
}

// Send delivers one message through the connected mailbox as a raw
// multipart/alternative RFC 2822 payload.
func (g *GmailGateway) Send(ctx context.Context, tokens *domain.MailboxTokens, to, subject, htmlBody, textBody string) (*domain.MailboxTokens, error) {
	svc, ts, err := g.service(ctx, tokens)
	if err != nil {
		return nil, err
	}

	raw, err := buildRawMessage(to, subject, htmlBody, textBody)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	if _, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		metrics.MailboxCallsTotal.WithLabelValues("send", "error").Inc()
		return rotatedTokens(ts, tokens), g.mapError("send message", err)
	}

	metrics.MailboxCallsTotal.WithLabelValues("send", "ok").Inc()
	return rotatedTokens(ts, tokens), nil
}

// service builds the request-scoped Gmail client from the caller's tokens.
func (g *GmailGateway) service(ctx context.Context, tokens *domain.MailboxTokens) (*gmail.Service, oauth2.TokenSource, error) {
	if g.cfg == nil {
		return nil, nil, domain.ErrMailboxNotConfigured
	}
	if tokens == nil || (tokens.AccessToken == "" && tokens.RefreshToken == "") {
		return nil, nil, domain.ErrMailboxNotAuthenticated
	}

	ts := g.cfg.TokenSource(ctx, toOAuthToken(tokens))
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, fmt.Errorf("gmail service: %w", err)
	}
	return svc, ts, nil
}

func (g *GmailGateway) mapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		g.log.Warn().Int("code", gerr.Code).Str("op", op).Msg("mailbox tokens rejected by provider")
		return domain.ErrMailboxNotAuthenticated
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return domain.ErrMailboxNotAuthenticated
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rotatedTokens reports the refreshed token set when the provider rotated the
// access (or refresh) token during the call, or nil when nothing changed.
func rotatedTokens(ts oauth2.TokenSource, orig *domain.MailboxTokens) *domain.MailboxTokens {
	tok, err := ts.Token()
	if err != nil {
		return nil
	}
	if tok.AccessToken == orig.AccessToken {
		return nil
	}
	rotated := fromOAuthToken(tok)
	if rotated.RefreshToken == "" {
		rotated.RefreshToken = orig.RefreshToken
	}
	return rotated
}

func toOAuthToken(t *domain.MailboxTokens) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuthToken(t *oauth2.Token) *domain.MailboxTokens {
	scope, _ := t.Extra("scope").(string)
	return &domain.MailboxTokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Scope:        scope,
		Expiry:       t.Expiry,
	}
}
