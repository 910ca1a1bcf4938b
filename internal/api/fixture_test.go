package api_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/internal/api"
	"github.com/opalaxis/beamsolopex-companion/internal/core/container"
	"github.com/opalaxis/beamsolopex-companion/internal/core/routes"
	"github.com/opalaxis/beamsolopex-companion/internal/fixture"
	"github.com/opalaxis/beamsolopex-companion/internal/session"
	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startFixture(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := fixture.NewMemoryStore()
	require.NoError(t, store.Seed())
	c := container.NewAppContainer(ctx, store, container.Options{
		JWTSecret: "integration-secret-123",
		TokenTTL:  time.Hour,
	}, zap.NewNop())

	srv := httptest.NewServer(routes.NewRouter(c))
	t.Cleanup(srv.Close)
	return srv.URL + routes.APIPrefix
}

func TestClientAgainstFixture(t *testing.T) {
	baseURL := startFixture(t)
	ctx := context.Background()

	sessions := session.NewManager(session.NewFileStore(filepath.Join(t.TempDir(), "session.json")), nil)
	client := api.NewClient(baseURL,
		api.WithTokenSource(api.TokenFunc(sessions.Token)),
		api.WithUnauthorizedHandler(sessions.HandleUnauthorized))
	backend := api.NewBackend(client)

	_, err := sessions.Login(ctx, client, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, sessions.HasPermission("manage_asset_receipts"))

	receipts := backend.Receipts.List(ctx, nil)
	require.Len(t, receipts, 2)
	assert.Len(t, backend.Assets.List(ctx, nil), 3)
	assert.Len(t, backend.Locations.List(ctx, nil), 3)
	assert.Len(t, backend.Conditions.List(ctx, nil), 3)
	assert.Len(t, backend.OperationalStatuses.List(ctx, nil), 3)

	created, err := backend.Receipts.Create(ctx, models.AssetReceipt{
		AssetID:     "3",
		ReceiptDate: "2024-06-01",
		ReceivedBy:  "Admin",
		Locations: []models.ReceiptLocation{{
			LocationID: "2", Quantity: 5, SerialNumbers: []string{""}, TagNumbers: []string{"H-1"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)
	assert.Equal(t, "H-1", created.TagNo)

	created.Remarks = "recounted"
	created.Locations[0].Quantity = 6
	updated, err := backend.Receipts.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "recounted", updated.Remarks)
	require.NotNil(t, updated.Quantity)
	assert.Equal(t, 6, *updated.Quantity)

	got, err := backend.Receipts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "recounted", got.Remarks)

	_, err = backend.Receipts.Create(ctx, models.AssetReceipt{AssetID: "99", ReceiptDate: "2024-06-01", ReceivedBy: "Admin"})
	assert.Equal(t, "The selected asset id is invalid.", custom_error.MessageOf(err, ""))

	require.NoError(t, backend.Receipts.Remove(ctx, created.ID))
	assert.Len(t, backend.Receipts.List(ctx, nil), 2)
}

func TestRejectedTokenEndsSession(t *testing.T) {
	baseURL := startFixture(t)
	ctx := context.Background()

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(ctx, session.Session{Token: "forged", User: models.User{Name: "Mallory"}}))
	sessions := session.NewManager(store, nil)
	require.NoError(t, sessions.Init(ctx))
	require.Equal(t, "forged", sessions.Token())

	client := api.NewClient(baseURL,
		api.WithTokenSource(api.TokenFunc(sessions.Token)),
		api.WithUnauthorizedHandler(sessions.HandleUnauthorized))

	err := api.NewBackend(client).Receipts.Remove(ctx, 1)

	assert.ErrorIs(t, err, custom_error.ErrUnauthorized)
	assert.Empty(t, sessions.Token())
	_, ok := sessions.CurrentUser()
	assert.False(t, ok)
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
