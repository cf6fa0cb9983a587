package panelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-overrides/components/overrides"
)

const defaultResourcePath = "/api/squads"

// HTTPConfig configures the management API client.
type HTTPConfig struct {
	BaseURL      string
	Token        string
	ResourcePath string
	HTTPClient   *http.Client
}

// HTTPClient fetches entities from the management API and submits override
// sets to its save mutation.
type HTTPClient struct {
	baseURL  string
	token    string
	resource string
	client   *http.Client
}

var (
	_ overrides.EntityFetcher = (*HTTPClient)(nil)
	_ overrides.SaveClient    = (*HTTPClient)(nil)
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("panelapi: remote error %d: %s", e.StatusCode, e.Body)
}

// NewHTTPClient builds a client for the management API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("panelapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	resource := cfg.ResourcePath
	if resource == "" {
		resource = defaultResourcePath
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		resource: "/" + strings.Trim(resource, "/"),
		client:   httpClient,
	}, nil
}

// FetchEntity loads the entity and its override sets.
func (c *HTTPClient) FetchEntity(ctx context.Context, entityID string) (overrides.Entity, error) {
	var resp entityEnvelope
	if err := c.do(ctx, http.MethodGet, c.entityPath(entityID), nil, &resp); err != nil {
		return overrides.Entity{}, err
	}
	return resp.Response.toEntity(), nil
}

// SaveOverrides submits { category: overrides } for the entity and returns the
// server's copy of the entity. Rejections come back as *overrides.SubmissionError.
func (c *HTTPClient) SaveOverrides(ctx context.Context, req overrides.SaveRequest) (overrides.Entity, error) {
	payload := map[string]overrides.OverrideSet{req.Category: req.Overrides}
	var resp entityEnvelope
	if err := c.do(ctx, http.MethodPatch, c.entityPath(req.EntityID)+"/overrides", payload, &resp); err != nil {
		return overrides.Entity{}, toSubmissionError(err)
	}
	return resp.Response.toEntity(), nil
}

func (c *HTTPClient) entityPath(entityID string) string {
	return c.resource + "/" + url.PathEscape(entityID)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("panelapi: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("panelapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("panelapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: buf.String()}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("panelapi: decode response: %w", err)
	}
	return nil
}

type entityEnvelope struct {
	Response entityPayload `json:"response"`
}

type entityPayload struct {
	UUID      string                           `json:"uuid"`
	Name      string                           `json:"name"`
	Overrides map[string]overrides.OverrideSet `json:"overrides"`
	Extra     map[string]any                   `json:"attributes,omitempty"`
}

func (p entityPayload) toEntity() overrides.Entity {
	return overrides.Entity{
		ID:         p.UUID,
		Name:       p.Name,
		Overrides:  p.Overrides,
		Attributes: p.Extra,
	}
}

type errorPayload struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func toSubmissionError(err error) error {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return &overrides.SubmissionError{Message: "save request failed", Err: err}
	}
	var detail errorPayload
	if jsonErr := json.Unmarshal([]byte(statusErr.Body), &detail); jsonErr != nil || detail.Message == "" {
		return &overrides.SubmissionError{Message: http.StatusText(statusErr.StatusCode), Err: err}
	}
	return &overrides.SubmissionError{Message: detail.Message, Fields: detail.Errors, Err: err}
}
