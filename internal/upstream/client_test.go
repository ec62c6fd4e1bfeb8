package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "PAUSED", in["status"])
		w.Write([]byte(`{"id":"42"}`))
	}))
	defer srv.Close()

	var out struct {
		ID string `json:"id"`
	}
	err := Do(context.Background(), NewHTTPClient(2*time.Second), Call{
		Platform: "test",
		Op:       "decode",
		Method:   http.MethodPost,
		URL:      srv.URL,
		Query:    url.Values{"limit": {"100"}},
		Header:   http.Header{"Authorization": {"Bearer tok"}},
		Body:     map[string]string{"status": "PAUSED"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
}

func TestDoHandles500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	before := testutil.ToFloat64(callsTotal.WithLabelValues("test", "fail500", "500"))
	err := Do(context.Background(), NewHTTPClient(2*time.Second), Call{Platform: "test", Op: "fail500", URL: srv.URL}, nil)

	var uerr *Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusInternalServerError, uerr.StatusCode)
	assert.Equal(t, "internal error", uerr.Message)
	assert.Equal(t, before+1, testutil.ToFloat64(callsTotal.WithLabelValues("test", "fail500", "500")))
}

func TestDoHandles404WithGraphMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"Unsupported get request","type":"GraphMethodException","code":100}}`))
	}))
	defer srv.Close()

	err := Do(context.Background(), NewHTTPClient(2*time.Second), Call{Platform: "meta", Op: "get", URL: srv.URL}, nil)

	var uerr *Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusNotFound, uerr.StatusCode)
	assert.Equal(t, "meta get: status 404: Unsupported get request", err.Error())
}

func TestDoHandlesJSONAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"status":401,"title":"Not authenticated","detail":"Missing or invalid private key."}]}`))
	}))
	defer srv.Close()

	err := Do(context.Background(), NewHTTPClient(2*time.Second), Call{Platform: "klaviyo", Op: "list", URL: srv.URL}, nil)

	var uerr *Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusUnauthorized, uerr.StatusCode)
	assert.Equal(t, "Missing or invalid private key.", uerr.Message)
}

func TestDoHandlesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1500 * time.Millisecond)
	}))
	defer srv.Close()

	err := Do(context.Background(), NewHTTPClient(200*time.Millisecond), Call{Platform: "test", Op: "slow", URL: srv.URL}, nil)

	var uerr *Error
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 0, uerr.StatusCode)
	assert.NotNil(t, uerr.Unwrap())
}

func TestDoHonoursContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, NewHTTPClient(0), Call{Platform: "test", Op: "cancel", URL: srv.URL}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
