package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/phishguard/internal/feature"
	"github.com/nao1215/phishguard/internal/model"
)

const (
	// DefaultTimeout bounds a single classification round trip.
	DefaultTimeout = 10 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 64 * 1024

	// modelInfoPath is the diagnostic endpoint next to the predict endpoint.
	modelInfoPath = "/model_info"
)

// predictRequest is the request body.
type predictRequest struct {
	Features feature.Vector `json:"features"`
}

// predictResponse is the response body. Prediction is a pointer so a
// missing field can be told apart from 0.
type predictResponse struct {
	Prediction *int   `json:"prediction"`
	Error      string `json:"error,omitempty"`
}

// ModelInfo is the body of GET /model_info.
type ModelInfo struct {
	Status           string `json:"model_status"`
	FeaturesExpected int    `json:"features_expected"`
	Message          string `json:"message,omitempty"`
}

// Client sends feature vectors to the prediction service.
// It is safe for concurrent use.
type Client struct {
	endpoint     string
	modelInfoURL string
	timeout      time.Duration
	proxyAddress string
	httpClient   *http.Client
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// WithProxy has no effect when this option is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "host:port".
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithModelInfoURL overrides the diagnostic endpoint, which otherwise is
// derived from the predict endpoint by replacing its path.
func WithModelInfoURL(u string) Option {
	return func(c *Client) {
		c.modelInfoURL = u
	}
}

// WithLogger sets the logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the predict endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidEndpoint
	}

	c := &Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.modelInfoURL == "" {
		info := *u
		info.Path = modelInfoPath
		info.RawQuery = ""
		c.modelInfoURL = info.String()
	}
	if c.httpClient == nil {
		c.httpClient, err = newHTTPClient(c.proxyAddress)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// newHTTPClient builds the default client, optionally dialing through SOCKS5.
// The request timeout is applied per call through the context, not here.
func newHTTPClient(proxyAddress string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{Transport: transport}, nil
}

// Endpoint returns the predict endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Classify sends v to the service and maps the answer to a verdict.
// The verdict is always terminal. Whenever err is non-nil the verdict is
// model.VerdictError.
func (c *Client) Classify(ctx context.Context, v feature.Vector) (model.Verdict, error) {
	if len(v) != feature.Count {
		return model.VerdictError, fmt.Errorf("%w: got %d, want %d", ErrInvalidVector, len(v), feature.Count)
	}

	body, err := json.Marshal(predictRequest{Features: v})
	if err != nil {
		return model.VerdictError, fmt.Errorf("%w: %w", ErrProtocol, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.VerdictError, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.VerdictError, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.VerdictError, classifyTransportError(ctx, err)
	}

	var pr predictResponse
	decodeErr := json.Unmarshal(data, &pr)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(pr.Error)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return model.VerdictError, fmt.Errorf("%w: status %d: %s", ErrProtocol, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return model.VerdictError, fmt.Errorf("%w: %w", ErrProtocol, decodeErr)
	}
	if pr.Prediction == nil {
		return model.VerdictError, fmt.Errorf("%w: missing prediction field", ErrProtocol)
	}

	c.logger.Debug("classifier answered",
		"prediction", *pr.Prediction,
		"elapsed", time.Since(start),
	)

	switch *pr.Prediction {
	case 0:
		return model.VerdictLegitimate, nil
	case 1:
		return model.VerdictPhishing, nil
	default:
		return model.VerdictError, fmt.Errorf("%w: unexpected prediction %d", ErrProtocol, *pr.Prediction)
	}
}

// classifyTransportError maps a transport failure onto ErrTimeout or ErrNetwork.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// ModelInfo queries the diagnostic endpoint.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: model info status %d", ErrProtocol, resp.StatusCode)
	}

	var info ModelInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return &info, nil
}

// CheckCompatibility verifies that the service has a model loaded and that
// the model expects feature.Count features.
func (c *Client) CheckCompatibility(ctx context.Context) error {
	info, err := c.ModelInfo(ctx)
	if err != nil {
		return err
	}
	if info.Status != "loaded" {
		if info.Message != "" {
			return fmt.Errorf("%w: %s", ErrModelUnavailable, info.Message)
		}
		return ErrModelUnavailable
	}
	if info.FeaturesExpected != feature.Count {
		return fmt.Errorf("%w: model expects %d, extractor produces %d (schema %s)",
			ErrFeatureMismatch, info.FeaturesExpected, feature.Count, feature.SchemaVersion)
	}
	return nil
}
