package cdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cdcaccount/internal/platform/metrics"
	"cdcaccount/pkg/domain"
	emailutil "cdcaccount/pkg/email"
)

// Vendor REST methods. The API is form-encoded POST per method, with the
// response payload merged into the error envelope.
const (
	methodGetAccountInfo     = "accounts.getAccountInfo"
	methodSearch             = "accounts.search"
	methodIsAvailableLoginID = "accounts.isAvailableLoginID"
	methodRegister           = "accounts.register"
	methodSetAccountInfo     = "accounts.setAccountInfo"
	methodGetRelyingParty    = "fidm.oidc.op.getRP"
)

// maxResponseBytes bounds vendor response reads.
const maxResponseBytes = 1 << 20

// HTTPConfig configures the vendor HTTP client.
type HTTPConfig struct {
	// Endpoints maps each datacenter to its API base URL.
	Endpoints map[domain.Datacenter]string
	// Primary is the datacenter used for calls that are not datacenter
	// qualified (relying-party lookups).
	Primary   domain.Datacenter
	APIKey    string
	APISecret string
	// HTTPClient is optional; a client with a sane timeout is used when nil.
	HTTPClient *http.Client
}

// HTTPClient implements Client against the vendor REST API.
type HTTPClient struct {
	endpoints map[domain.Datacenter]string
	primary   domain.Datacenter
	apiKey    string
	apiSecret string
	http      *http.Client
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithLogger sets a logger for request diagnostics.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) HTTPOption {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// NewHTTPClient builds a vendor client from configuration.
func NewHTTPClient(cfg HTTPConfig, opts ...HTTPOption) (*HTTPClient, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("at least one datacenter endpoint is required")
	}
	if _, ok := cfg.Endpoints[cfg.Primary]; !ok {
		return nil, fmt.Errorf("no endpoint configured for primary datacenter %q", cfg.Primary)
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("api key and secret are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	c := &HTTPClient{
		endpoints: cfg.Endpoints,
		primary:   cfg.Primary,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      httpClient,
		logger:    slog.Default(),
		tracer:    otel.Tracer("cdcaccount/internal/cdc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the vendor response header present on every reply.
type envelope struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	ErrorDetails string `json:"errorDetails"`
}

// call issues one vendor request and decodes the reply into out when the
// vendor reports success. Vendor failures return *APIError; transport
// failures are wrapped.
func (c *HTTPClient) call(ctx context.Context, dc domain.Datacenter, method string, params url.Values, out any) error {
	base, ok := c.endpoints[dc]
	if !ok {
		return fmt.Errorf("no endpoint configured for datacenter %q", dc)
	}

	ctx, span := c.tracer.Start(ctx, "cdc."+method, trace.WithAttributes(
		attribute.String("cdc.datacenter", dc.String()),
	))
	defer span.End()

	start := time.Now()
	err := c.doCall(ctx, base, method, params, out)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveVendorCall(method, dc.String(), elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *HTTPClient) doCall(ctx context.Context, base, method string, params url.Values, out any) error {
	params.Set("apiKey", c.apiKey)
	params.Set("secret", c.apiSecret)

	endpoint := strings.TrimSuffix(base, "/") + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode %s envelope: %w", method, err)
	}
	if rerr := responseError(env.ErrorCode, env.ErrorMessage, env.ErrorDetails); rerr != nil {
		return rerr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s payload: %w", method, err)
		}
	}
	return nil
}

// GetAccount implements Client.
func (c *HTTPClient) GetAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) (*Account, error) {
	params := url.Values{}
	params.Set("UID", uid.String())
	params.Set("include", "profile,data,emails,loginIDs")

	var account Account
	if err := c.call(ctx, dc, methodGetAccountInfo, params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Search implements Client.
func (c *HTTPClient) Search(ctx context.Context, dc domain.Datacenter, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)

	var payload struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.call(ctx, dc, methodSearch, params, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// IsLoginIDAvailable implements Client.
func (c *HTTPClient) IsLoginIDAvailable(ctx context.Context, dc domain.Datacenter, loginID string) (bool, error) {
	params := url.Values{}
	params.Set("loginID", loginID)

	var payload struct {
		IsAvailable bool `json:"isAvailable"`
	}
	if err := c.call(ctx, dc, methodIsAvailableLoginID, params, &payload); err != nil {
		return false, err
	}
	return payload.IsAvailable, nil
}

// RegisterLite implements Client. Placeholder accounts get a profile name
// derived from the email local part so downstream systems never see a
// nameless account.
func (c *HTTPClient) RegisterLite(ctx context.Context, dc domain.Datacenter, email string) (domain.UID, error) {
	firstName, lastName := emailutil.DeriveNameFromEmail(email)
	profile, err := json.Marshal(map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
	})
	if err != nil {
		return "", fmt.Errorf("encode placeholder profile: %w", err)
	}

	params := url.Values{}
	params.Set("email", email)
	params.Set("isLite", "true")
	params.Set("profile", string(profile))

	var payload struct {
		UID string `json:"UID"`
	}
	if err := c.call(ctx, dc, methodRegister, params, &payload); err != nil {
		return "", err
	}
	return domain.UID(payload.UID), nil
}

// SetAccountInfo implements Client.
func (c *HTTPClient) SetAccountInfo(ctx context.Context, dc domain.Datacenter, uid domain.UID, update Update) error {
	if update.IsZero() {
		return nil
	}

	data := map[string]string{}
	if update.ProviderDescription != "" {
		data["providerDescription"] = update.ProviderDescription
	}
	if update.AccessRole != "" {
		data["accessRole"] = update.AccessRole
	}
	if !update.DuplicatedAccountUID.IsZero() {
		data["duplicatedAccountUid"] = update.DuplicatedAccountUID.String()
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode account data: %w", err)
	}

	params := url.Values{}
	params.Set("UID", uid.String())
	params.Set("data", string(encoded))
	return c.call(ctx, dc, methodSetAccountInfo, params, nil)
}

// DisableAccount implements Client.
func (c *HTTPClient) DisableAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) error {
	params := url.Values{}
	params.Set("UID", uid.String())
	params.Set("isActive", "false")
	return c.call(ctx, dc, methodSetAccountInfo, params, nil)
}

// GetRelyingParty implements Client. Relying-party registrations are global,
// so the lookup always runs against the primary datacenter.
func (c *HTTPClient) GetRelyingParty(ctx context.Context, clientID string) (*RelyingParty, error) {
	params := url.Values{}
	params.Set("clientID", clientID)

	var rp RelyingParty
	if err := c.call(ctx, c.primary, methodGetRelyingParty, params, &rp); err != nil {
		return nil, err
	}
	if rp.ClientID == "" {
		rp.ClientID = clientID
	}
	return &rp, nil
}
