package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahornada/backoffice/session"
)

const defaultTimeout = 15 * time.Second

// deviceName identifies this console to the remote token issuer.
const deviceName = "Back Office Console"

// Config configures a [Client].
type Config struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:8000/api".
	BaseURL string
	// Timeout bounds each request. Zero means 15s.
	Timeout time.Duration
	// HTTPClient overrides the underlying client; Timeout is ignored then.
	HTTPClient *http.Client
	// Logger receives request-level debug logging. Nil disables it.
	Logger logrus.FieldLogger
}

// Client issues typed requests against the remote back-office API. It is
// safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     log,
	}
}

// LoginResult is the decoded login response. On rejection, Success is false
// and Code carries the field discriminator ([CodeEmailNotFound] or
// [CodeInvalidPassword]); no error is returned for that case.
type LoginResult struct {
	Success   bool
	Token     string
	TokenType string
	User      *session.User
	Message   string
	Code      string
}

type loginPayload struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	User      *session.User `json:"user"`
}

// Login exchanges credentials for a bearer token. Credential rejections come
// back as a LoginResult with Success=false; only transport failures and
// undecodable responses produce an error.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{
		"email":       email,
		"password":    password,
		"device_name": deviceName,
	}

	resp, err := c.roundTrip(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload loginPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: "unreadable login response"}
	}

	// The API reports credential rejections both as 2xx with success=false
	// and as 4xx with the same body shape; normalize to the result value.
	if payload.Success || payload.Status != "" {
		return &LoginResult{
			Success:   payload.Success,
			Token:     payload.Token,
			TokenType: payload.TokenType,
			User:      payload.User,
			Message:   payload.Message,
			Code:      payload.Status,
		}, nil
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{Status: resp.StatusCode, Message: payload.Message}
	}
	return &LoginResult{Success: payload.Success, Message: payload.Message}, nil
}

// Logout revokes the token server-side. Callers treat failures as
// best-effort; the session is cleared client-side regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
}

// Me fetches the signed-in user's profile, including the role and
// permission name snapshots used for client-side gating.
func (c *Client) Me(ctx context.Context, token string) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SendPasswordReset asks the API to mail a reset link to email.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/password/email", "", map[string]string{"email": email}, nil)
}

// ValidateResetToken checks whether a reset token is still usable.
func (c *Client) ValidateResetToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/password/validate", "", map[string]string{"token": token}, nil)
}

// ConfirmPasswordReset sets a new password for the account the reset token
// belongs to.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.do(ctx, http.MethodPost, "/password/reset", "", body, nil)
}

// do runs a request and decodes a 2xx JSON body into out (ignored when out
// is nil). Non-2xx responses become *Error; transport failures wrap
// ErrConnection.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	resp, err := c.roundTrip(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "unreadable response body"}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return resp, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
		apiErr.Code = payload.Status
	}

	c.log.WithFields(logrus.Fields{"status": resp.StatusCode, "code": apiErr.Code}).
		Debug("api error response")
	return apiErr
}
