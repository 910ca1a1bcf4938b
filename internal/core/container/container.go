package container

import (
	"context"
	"time"

	"github.com/opalaxis/beamsolopex-companion/internal/fixture"
	"github.com/opalaxis/beamsolopex-companion/internal/middleware"
	"github.com/opalaxis/beamsolopex-companion/internal/rate_limiter"
	"github.com/opalaxis/beamsolopex-companion/pkg/auditlog"
	"github.com/opalaxis/beamsolopex-companion/pkg/security"
	"go.uber.org/zap"
)

type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	LoginAttempts int
	LoginWindow   time.Duration
	Version       string
}

// Container wires the fixture backend's handlers around one store.
type Container struct {
	Store            *fixture.MemoryStore
	Issuer           *security.TokenIssuer
	Health           *middleware.Health
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	ReceiptHandler   *fixture.ReceiptHandler
	ReferenceHandler *fixture.ReferenceHandler
	Logger           *zap.Logger
}

// NewAppContainer builds the handlers. The login rate limiter's janitor runs
// until ctx is done.
func NewAppContainer(ctx context.Context, store *fixture.MemoryStore, opts Options, logger *zap.Logger) *Container {
	if opts.LoginAttempts < 1 {
		opts.LoginAttempts = 10
	}
	if opts.LoginWindow <= 0 {
		opts.LoginWindow = 5 * time.Minute
	}

	issuer := security.NewTokenIssuer(opts.JWTSecret, opts.TokenTTL)
	limiter := rate_limiter.NewRateLimiter(ctx, opts.LoginAttempts, opts.LoginWindow)
	auditLog := auditlog.NewAuditLog(logger)

	return &Container{
		Store:            store,
		Issuer:           issuer,
		Health:           middleware.NewHealth(opts.Version),
		AuditLog:         auditLog,
		LoginHandler:     security.NewLoginHandler(store, issuer, limiter, logger),
		ReceiptHandler:   fixture.NewReceiptHandler(store, auditLog, logger),
		ReferenceHandler: fixture.NewReferenceHandler(store),
		Logger:           logger,
	}
}
