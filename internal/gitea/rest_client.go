package gitea

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	goGithub "github.com/google/go-github/v72/github"
	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

const apiPath = "/api/v1/"

// tokenType makes the oauth2 transport send "Authorization: token <value>".
const tokenType = "token"

type restClient struct {
	client *goGithub.Client
}

func newRESTClient(cfg Config) (*restClient, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	baseTransport := httpClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: tokenType})
	httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   baseTransport,
		},
		Timeout: httpClient.Timeout,
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/") + apiPath
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", cfg.BaseURL, err)
	}

	client := goGithub.NewClient(httpClient)
	client.BaseURL = parsed
	client.UserAgent = "giteaview"

	return &restClient{client: client}, nil
}

// do issues exactly one request. out may be nil, a pointer to decode JSON
// into, or an io.Writer receiving the raw body.
func (c *restClient) do(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.client.NewRequest(method, path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	if _, err := c.client.Do(ctx, req, out); err != nil {
		return wrapRESTError(op, err)
	}
	return nil
}

func withQuery(path string, opts any) (string, error) {
	values, err := query.Values(opts)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	if len(values) == 0 {
		return path, nil
	}
	return path + "?" + values.Encode(), nil
}

func wrapRESTError(op string, err error) error {
	if err == nil {
		return nil
	}

	var respErr *goGithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return fmt.Errorf("%s: %w", op, &statusError{
			StatusCode: respErr.Response.StatusCode,
			Err:        errors.New(errorMessage(respErr)),
		})
	}

	var rateErr *goGithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return fmt.Errorf("%s: %w", op, &statusError{
			StatusCode: rateErr.Response.StatusCode,
			Err:        err,
		})
	}

	return fmt.Errorf("%s: %w", op, err)
}

func errorMessage(respErr *goGithub.ErrorResponse) string {
	if msg := strings.TrimSpace(respErr.Message); msg != "" {
		return msg
	}
	return http.StatusText(respErr.Response.StatusCode)
}

// statusError carries the HTTP status of a non-2xx response.
type statusError struct {
	StatusCode int
	Err        error
}

func (e *statusError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
}

func (e *statusError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
