package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// stateTTL bounds how long a consent redirect may take before the state
// parameter expires.
const stateTTL = 10 * time.Minute

// NewsletterHandler handles the mailbox connection flow and newsletter
// dispatch endpoints.
type NewsletterHandler struct {
	gateway    ports.MailboxGateway
	users      ports.UserRepository
	newsletter ports.NewsletterService
	jwtSecret  string
	log        zerolog.Logger
}

func NewNewsletterHandler(gateway ports.MailboxGateway, users ports.UserRepository, newsletter ports.NewsletterService, jwtSecret string, log zerolog.Logger) *NewsletterHandler {
	return &NewsletterHandler{gateway: gateway, users: users, newsletter: newsletter, jwtSecret: jwtSecret, log: log}
}

func (h *NewsletterHandler) signState(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}

func (h *NewsletterHandler) parseState(state string) (string, error) {
	if state == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing state parameter")
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid state parameter")
	}
	return claims.Subject, nil
}

// --- Request / Response types ---

type fetchEmailsRequest struct {
	Query      string `json:"query"`
	MaxResults int64  `json:"max_results"`
	PageToken  string `json:"page_token"`
}

type sendNewsletterRequest struct {
	Subject   string   `json:"subject"`
	Content   string   `json:"content"`
	ClientIDs []string `json:"client_ids"`
}

type authCallbackResponse struct {
	HasAccessToken  bool `json:"has_access_token"`
	HasRefreshToken bool `json:"has_refresh_token"`
}

type mailboxStatusResponse struct {
	Connected    bool   `json:"connected"`
	EmailAddress string `json:"email_address,omitempty"`
}

type newsletterClientsResponse struct {
	Clients []ports.Recipient `json:"clients"`
	Total   int               `json:"total"`
}

// AuthURL handles GET /newsletter/auth-url. The consent URL carries a signed,
// short-lived state token identifying the caller, so the provider's redirect
// can be attributed without a Bearer header.
//
// @Summary      Get the mailbox OAuth consent URL
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      503  {object}  errorResponse
// @Router       /newsletter/auth-url [get]
func (h *NewsletterHandler) AuthURL(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	state, err := h.signState(actor.UserID)
	if err != nil {
		return err
	}

	url, err := h.gateway.AuthURL(state)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "authorization url generated", map[string]string{"url": url})
}

// AuthCallback handles GET /newsletter/auth/callback?code=&state=. The
// provider redirects the browser here without credentials; the signed state
// parameter identifies the user who started the flow. The exchanged token set
// is persisted on that user's record and only masked presence flags are
// returned, never the tokens themselves.
//
// @Summary      Complete the mailbox OAuth flow
// @Tags         newsletter
// @Produce      json
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "Signed state from the consent URL"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Router       /newsletter/auth/callback [get]
func (h *NewsletterHandler) AuthCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	userID, err := h.parseState(c.QueryParam("state"))
	if err != nil {
		return err
	}

	tokens, err := h.gateway.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		return err
	}

	if err := h.users.SaveMailboxTokens(c.Request().Context(), userID, tokens); err != nil {
		return err
	}

	h.log.Info().Str("user_id", userID).Msg("mailbox connected")
	return respond(c, http.StatusOK, "mailbox connected", authCallbackResponse{
		HasAccessToken:  tokens.AccessToken != "",
		HasRefreshToken: tokens.RefreshToken != "",
	})
}

// Status handles GET /newsletter/status. Connectivity is probed with a
// profile call; a provider rejection means the stored tokens are stale.
//
// @Summary      Check the mailbox connection
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /newsletter/status [get]
func (h *NewsletterHandler) Status(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	tokens, err := h.loadTokens(c, actor)
	if err != nil || tokens == nil || !h.gateway.Configured() {
		return respond(c, http.StatusOK, "mailbox status", mailboxStatusResponse{Connected: false})
	}

	profile, rotated, err := h.gateway.Profile(c.Request().Context(), tokens)
	h.persistRotated(c, actor, rotated)
	if err != nil {
		return respond(c, http.StatusOK, "mailbox status", mailboxStatusResponse{Connected: false})
	}

	return respond(c, http.StatusOK, "mailbox status", mailboxStatusResponse{
		Connected:    true,
		EmailAddress: profile.EmailAddress,
	})
}

// FetchEmails handles POST /newsletter/fetch-emails.
//
// @Summary      List and fetch provider messages
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  fetchEmailsRequest  true  "Listing parameters"
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorResponse
// @Router       /newsletter/fetch-emails [post]
func (h *NewsletterHandler) FetchEmails(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req fetchEmailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	tokens, err := h.loadTokens(c, actor)
	if err != nil {
		return err
	}
	if tokens == nil {
		return domain.ErrMailboxNotAuthenticated
	}

	result, rotated, err := h.gateway.FetchMessages(c.Request().Context(), tokens, ports.FetchOptions{
		Query:      req.Query,
		MaxResults: req.MaxResults,
		PageToken:  req.PageToken,
	})
	h.persistRotated(c, actor, rotated)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "emails fetched", result)
}

// Clients handles GET /newsletter/clients — the emailable recipient list.
//
// @Summary      List clients reachable by newsletter
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Router       /newsletter/clients [get]
func (h *NewsletterHandler) Clients(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	recipients, err := h.newsletter.Recipients(c.Request().Context(), actor, nil)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "recipients retrieved", newsletterClientsResponse{
		Clients: recipients,
		Total:   len(recipients),
	})
}

// Send handles POST /newsletter/send. The run is best-effort: per-recipient
// failures are reported in the summary, never as an HTTP error.
//
// @Summary      Dispatch a newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  sendNewsletterRequest  true  "Newsletter content"
// @Success      200  {object}  envelope
// @Failure      400  {object}  errorResponse
// @Router       /newsletter/send [post]
func (h *NewsletterHandler) Send(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req sendNewsletterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	summary, err := h.newsletter.Send(c.Request().Context(), actor, ports.NewsletterSendInput{
		Subject:   req.Subject,
		Content:   req.Content,
		ClientIDs: req.ClientIDs,
	})
	if err != nil {
		return err
	}

	message := "newsletter sent"
	if !summary.Success {
		message = "newsletter dispatch failed for all recipients"
	}
	return respond(c, http.StatusOK, message, summary)
}

func (h *NewsletterHandler) loadTokens(c echo.Context, actor domain.Actor) (*domain.MailboxTokens, error) {
	user, err := h.users.FindByID(c.Request().Context(), actor.UserID)
	if err != nil {
		return nil, err
	}
	return user.MailboxTokens, nil
}

func (h *NewsletterHandler) persistRotated(c echo.Context, actor domain.Actor, rotated *domain.MailboxTokens) {
	if rotated == nil {
		return
	}
	if err := h.users.SaveMailboxTokens(c.Request().Context(), actor.UserID, rotated); err != nil {
		h.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("failed to persist rotated mailbox tokens")
	}
}
