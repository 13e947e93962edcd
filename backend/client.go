package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/pkg/errors"
)

// Endpoints are the API paths relative to the base URL.
type Endpoints struct {
	Login        string
	Register     string
	Profile      string
	CustomerByID string
}

// DefaultEndpoints match the storefront API.
var DefaultEndpoints = Endpoints{
	Login:        "auth/login",
	Register:     "clientes/registrar",
	Profile:      "clientes/perfil",
	CustomerByID: "clientes/ids",
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Endpoints  Endpoints
}

var _ goSession.Authenticator = (*Client)(nil)

// NewClient returns a client for the API at baseURL. timeout bounds each
// request; zero means no client-side limit.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Endpoints:  DefaultEndpoints,
	}
}

// NewClientFromConfig builds a client from the backend section of cfg.
func NewClientFromConfig(cfg goSession.BackendConfig) *Client {
	return NewClient(cfg.BaseURL, cfg.Timeout)
}

type loginRequest struct {
	Email        string `json:"vchCorreo"`
	Password     string `json:"vchPassword"`
	CaptchaToken string `json:"recaptchaToken,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges creds for a session token. A 4xx answer is returned as an
// *APIError wrapping goSession.ErrCredentialsRejected.
func (c *Client) Login(ctx context.Context, creds goSession.Credentials) (string, error) {
	var out loginResponse
	err := c.executeRequest(ctx, outboundRequest{
		Method: http.MethodPost,
		Path:   c.Endpoints.Login,
		ReqBodyObj: loginRequest{
			Email:        creds.Email,
			Password:     creds.Password,
			CaptchaToken: creds.CaptchaToken,
		},
		RespObj: &out,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "", apiErr.asLoginRejection()
		}
		return "", err
	}
	return out.Token, nil
}

// Profile fetches the customer record of customerID with the session token.
// The payload is returned undecoded.
func (c *Client) Profile(ctx context.Context, token, customerID string) (json.RawMessage, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	var out json.RawMessage
	err := c.executeRequest(ctx, outboundRequest{
		Method:      http.MethodGet,
		Path:        c.Endpoints.CustomerByID + "/" + url.PathEscape(customerID),
		BearerToken: token,
		RespObj:     &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
