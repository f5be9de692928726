// Package server wires the account service together: configuration,
// PostgreSQL, the OTP notifier and the gRPC endpoint, with graceful shutdown
// on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/notify"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/accountkeeper/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	accounts *services.AccountService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	notifier, err := notify.New(ctx, c.Notifier, notify.SESOptions{
		Region:          c.SESRegion,
		Sender:          c.SESSender,
		AccessKeyID:     c.SESAccessKeyID,
		SecretAccessKey: c.SESSecretAccessKey,
		BaseEndpoint:    c.SESBaseEndpoint,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	accounts, err := services.NewAccountService(db, rm, notifier, logger, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("account service init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, accounts: accounts}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.config.AccessTokenValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

type registrationPurger interface {
	PurgeExpiredRegistrations(ctx context.Context) (int64, error)
}

// runPurge removes expired pending registrations every interval until ctx
// is done. A non-positive interval disables it.
func runPurge(ctx context.Context, interval time.Duration, p registrationPurger, logger logging.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpiredRegistrations(ctx)
			if err != nil {
				logger.Warn(ctx, "pending purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "expired registrations purged", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		runPurge(ctx, app.config.PendingPurgeInterval, app.accounts, app.logger)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
