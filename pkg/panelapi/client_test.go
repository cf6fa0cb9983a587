package panelapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-overrides/components/overrides"
)

func TestHTTPClientFetchEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/squads/squad-1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		_, _ = w.Write([]byte(`{"response":{"uuid":"squad-1","name":"Core","overrides":{"host_overrides":{"port":443}}}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/", Token: "secret"})
	require.NoError(t, err)

	entity, err := client.FetchEntity(context.Background(), "squad-1")
	require.NoError(t, err)
	assert.Equal(t, "squad-1", entity.ID)
	assert.Equal(t, "Core", entity.Name)
	assert.Equal(t, float64(443), entity.OverridesFor(overrides.CategoryHostOverrides)["port"])
}

func TestHTTPClientSaveOverridesSendsCategoryPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/squads/squad-1/overrides" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["subscription_settings"]["profileTitle"] != "VIP" {
			t.Fatalf("unexpected body %#v", body)
		}
		_, _ = w.Write([]byte(`{"response":{"uuid":"squad-1","overrides":{"subscription_settings":{"profileTitle":"VIP","randomizeHosts":true}}}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	entity, err := client.SaveOverrides(context.Background(), overrides.SaveRequest{
		EntityID:  "squad-1",
		Category:  overrides.CategorySubscriptionSettings,
		Overrides: overrides.OverrideSet{"profileTitle": "VIP"},
	})
	require.NoError(t, err)
	assert.Equal(t, overrides.OverrideSet{"profileTitle": "VIP", "randomizeHosts": true},
		entity.OverridesFor(overrides.CategorySubscriptionSettings))
}

func TestHTTPClientSaveOverridesMapsFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid overrides","errors":{"port":"out of range"}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.SaveOverrides(context.Background(), overrides.SaveRequest{
		EntityID:  "squad-1",
		Category:  overrides.CategoryHostOverrides,
		Overrides: overrides.OverrideSet{"port": 70000},
	})
	require.Error(t, err)
	var subErr *overrides.SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "invalid overrides", subErr.Message)
	assert.Equal(t, "out of range", subErr.Fields["port"])
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}

func TestHTTPClientSaveOverridesPlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.SaveOverrides(context.Background(), overrides.SaveRequest{EntityID: "squad-1", Category: "host_overrides"})
	var subErr *overrides.SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "Internal Server Error", subErr.Message)
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}
