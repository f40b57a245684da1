package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 10 * time.Second

// Client envuelve resty con los defaults de los adapters salientes:
// JSON, timeout y base URL opcional.
type Client struct {
	rc      *resty.Client
	baseURL string
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// NewWithBaseURL exige URL absoluta; DoJSON acepta entonces paths relativos.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.rc.SetBaseURL(c.baseURL)
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// DoJSON envía in (si no es nil) como JSON y decodifica la respuesta en out (si no es nil).
// Un status fuera de 2xx devuelve *HTTPError con el cuerpo recortado.
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, headers map[string]string, in, out any) error {
	if c == nil || c.rc == nil {
		return errors.New("httpclient: nil client")
	}

	target, err := c.target(pathOrURL)
	if err != nil {
		return err
	}

	req := c.rc.R().SetContext(ctx)
	for k, v := range headers {
		if strings.TrimSpace(k) != "" {
			req.SetHeader(k, v)
		}
	}
	if in != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(in)
	}

	resp, err := req.Execute(strings.ToUpper(method), target)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return &HTTPError{StatusCode: code, Body: strings.TrimSpace(resp.String())}
	}

	raw := resp.Body()
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) target(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}
	if c.baseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return pathOrURL, nil
}
