package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method string
	path   string
	query  string
	auth   string
	reqID  string
	body   string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	seen := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*seen = captured{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get(RequestIDHeader),
			body:   string(data),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestListDecodesEnvelopeAndBarePayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"envelope", `{"data":[{"id":1,"name":"Main Warehouse"},{"id":2,"name":"Yard"}]}`},
		{"bare", `[{"id":1,"name":"Main Warehouse"},{"id":2,"name":"Yard"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newServer(t, http.StatusOK, tt.body)
			backend := NewBackend(NewClient(srv.URL, WithTokenSource(TokenFunc(func() string { return "tok" }))))

			locations := backend.Locations.List(context.Background(), nil)

			assert.Equal(t, []models.Location{{ID: 1, Name: "Main Warehouse"}, {ID: 2, Name: "Yard"}}, locations)
			assert.Equal(t, http.MethodGet, seen.method)
			assert.Equal(t, LocationsPath, seen.path)
			assert.Equal(t, "Bearer tok", seen.auth)
			assert.NotEmpty(t, seen.reqID)
		})
	}
}

func TestListDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"message":"boom"}`},
		{"not a list", http.StatusOK, `{"message":"ok"}`},
		{"null data", http.StatusOK, `{"data":null}`},
		{"empty body", http.StatusOK, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			backend := NewBackend(NewClient(srv.URL))

			receipts := backend.Receipts.List(context.Background(), nil)

			assert.NotNil(t, receipts)
			assert.Empty(t, receipts)
		})
	}
}

func TestListUnreachableBackend(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	srv.Close()

	assets := NewBackend(NewClient(srv.URL)).Assets.List(context.Background(), nil)

	assert.Empty(t, assets)
}

func TestUpdateVerbs(t *testing.T) {
	t.Run("receipts are replaced with PUT", func(t *testing.T) {
		srv, seen := newServer(t, http.StatusOK, `{"message":"updated","data":{"id":4,"asset_id":3}}`)
		backend := NewBackend(NewClient(srv.URL))

		updated, err := backend.Receipts.Update(context.Background(), 4, models.AssetReceipt{AssetID: "3", ReceivedBy: "Alice"})

		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, seen.method)
		assert.Equal(t, ReceiptsPath+"/4", seen.path)
		assert.Equal(t, 4, updated.ID)

		var sent map[string]any
		require.NoError(t, json.Unmarshal([]byte(seen.body), &sent))
		assert.Equal(t, float64(3), sent["asset_id"])
		assert.Equal(t, "Alice", sent["received_by"])
		assert.NotContains(t, sent, "id")
	})

	t.Run("assets are updated with POST", func(t *testing.T) {
		srv, seen := newServer(t, http.StatusOK, `{"message":"Asset updated"}`)
		backend := NewBackend(NewClient(srv.URL))

		_, err := backend.Assets.Update(context.Background(), 9, models.Asset{ItemName: "Forklift"})

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, seen.method)
		assert.Equal(t, AssetsPath+"/9", seen.path)
	})
}

func TestCreateAndRemove(t *testing.T) {
	srv, seen := newServer(t, http.StatusCreated, `{"id":12,"asset_id":"3","receipt_date":"2024-05-01"}`)
	backend := NewBackend(NewClient(srv.URL))

	created, err := backend.Receipts.Create(context.Background(), models.AssetReceipt{AssetID: "3"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, seen.method)
	assert.Equal(t, ReceiptsPath, seen.path)
	assert.Equal(t, 12, created.ID)

	require.NoError(t, backend.Receipts.Remove(context.Background(), 12))
	assert.Equal(t, http.MethodDelete, seen.method)
	assert.Equal(t, ReceiptsPath+"/12", seen.path)
}

func TestBackendErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"message field", `{"message":"Asset does not exist"}`, "Asset does not exist"},
		{"error field", `{"error":"Invalid request"}`, "Invalid request"},
		{"no body", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusUnprocessableEntity, tt.body)
			backend := NewBackend(NewClient(srv.URL))

			_, err := backend.Receipts.Create(context.Background(), models.AssetReceipt{})

			var apiErr *custom_error.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.message, custom_error.MessageOf(err, ""))
		})
	}
}

func TestUnauthorizedTriggersTeardown(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
	calls := 0
	backend := NewBackend(NewClient(srv.URL, WithUnauthorizedHandler(func() { calls++ })))

	err := backend.Receipts.Remove(context.Background(), 1)

	assert.ErrorIs(t, err, custom_error.ErrUnauthorized)
	assert.Equal(t, 1, calls)

	assert.Empty(t, backend.Receipts.List(context.Background(), nil))
	assert.Equal(t, 2, calls)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, seen := newServer(t, http.StatusOK,
			`{"token":"abc","user":{"id":1,"name":"Alice","email":"alice@example.com"},"roles":["admin"]}`)
		client := NewClient(srv.URL, WithTokenSource(TokenFunc(func() string { return "stale" })))

		resp, err := client.Login(context.Background(), "alice@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, "abc", resp.Token)
		assert.Equal(t, "Alice", resp.User.Name)
		assert.Equal(t, []string{"admin"}, resp.Roles)
		assert.Equal(t, []string{}, resp.Permissions)
		assert.Equal(t, http.MethodPost, seen.method)
		assert.Equal(t, LoginPath, seen.path)
		assert.Equal(t, "email=alice%40example.com&password=secret", seen.query)
		assert.Empty(t, seen.auth)
	})

	t.Run("rejected credentials keep the session hook quiet", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
		called := false
		client := NewClient(srv.URL, WithUnauthorizedHandler(func() { called = true }))

		_, err := client.Login(context.Background(), "alice@example.com", "nope")

		assert.Error(t, err)
		assert.Equal(t, "Invalid credentials", custom_error.MessageOf(err, "Login failed"))
		assert.False(t, called)
	})

	t.Run("no token in response", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `{"message":"ok"}`)

		_, err := NewClient(srv.URL).Login(context.Background(), "a@b.c", "x")

		assert.True(t, errors.Is(err, ErrLoginFailed))
	})
}
