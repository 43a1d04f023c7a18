package app

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/tropay/tenant-service/internal/config"
	internal_repositories "github.com/tropay/tenant-service/internal/repositories"
	"github.com/tropay/tenant-service/internal/repositories/memrepo"
	"github.com/tropay/tenant-service/internal/utils/tenantapi"
	"github.com/tropay/tenant-service/shared/go-utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

//go:embed schema.sql
var schemaSQL string

// Repositories is every store the services depend on, bound to the
// configured data source.
type Repositories struct {
	Profiles      internal_repositories.ProfileRepository
	Invoices      internal_repositories.InvoiceRepository
	Usage         internal_repositories.UsageRepository
	Updates       internal_repositories.RecentUpdateRepository
	QuickActions  internal_repositories.QuickActionRepository
	Payments      internal_repositories.PaymentIntentRepository
	Issues        internal_repositories.IssueRepository
	Feedback      internal_repositories.FeedbackRepository
	RoomContracts internal_repositories.RoomContractRepository
}

type App struct {
	Config   *config.Config
	DB       *pgxpool.Pool     // nil unless tenant-owned data lives in Postgres
	Memory   *memrepo.Store    // non-nil when tenant-owned data lives in memory
	Upstream *tenantapi.Client // non-nil for DATA_SOURCE=upstream
	Repos    Repositories
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.DataSource {
	case config.DataSourcePostgres:
		if err := a.connectDB(); err != nil {
			return nil, err
		}
		a.Repos = postgresRepositories(a.DB)

	case config.DataSourceMemory:
		a.Memory = memrepo.NewStore()
		a.Repos = memoryRepositories(a.Memory)
		utils.Logger.Warn("tenant-service is using in-memory storage; data is lost on restart")

	case config.DataSourceUpstream:
		client, err := tenantapi.NewClient(cfg.UpstreamAPIUrl, cfg.UpstreamAPIToken, 2, 0)
		if err != nil {
			return nil, fmt.Errorf("upstream client: %w", err)
		}
		a.Upstream = client

		// Payments, issues and the like are owned here even when the
		// dashboard read-model comes from upstream.
		if cfg.DBUrl != "" {
			if err := a.connectDB(); err != nil {
				return nil, err
			}
			a.Repos = postgresRepositories(a.DB)
		} else {
			a.Memory = memrepo.NewStore()
			a.Repos = memoryRepositories(a.Memory)
		}
		a.Repos.Profiles = client
		a.Repos.Invoices = client
		a.Repos.Usage = client
		a.Repos.Updates = client
		a.Repos.QuickActions = client.QuickActions()

	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}

	utils.Logger.Infof("tenant-service data source: %s", cfg.DataSource)
	return a, nil
}

func (a *App) connectDB() error {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, a.Config.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("tenant-service connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	a.DB = dbPool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schemaStatements() {
		if _, err := a.DB.Exec(ctx, stmt); err != nil {
			a.DB.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// schemaStatements splits the embedded schema into single statements.
func schemaStatements() []string {
	var out []string
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Ping checks every backing store the app talks to.
func (a *App) Ping(ctx context.Context) error {
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if a.Upstream != nil {
		if err := a.Upstream.Ping(ctx); err != nil {
			return fmt.Errorf("upstream: %w", err)
		}
	}
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("tenant-service DB connection closed.")
	}
}

func postgresRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Profiles:      internal_repositories.NewProfileRepository(db),
		Invoices:      internal_repositories.NewInvoiceRepository(db),
		Usage:         internal_repositories.NewUsageRepository(db),
		Updates:       internal_repositories.NewRecentUpdateRepository(db),
		QuickActions:  internal_repositories.NewQuickActionRepository(db),
		Payments:      internal_repositories.NewPaymentIntentRepository(db),
		Issues:        internal_repositories.NewIssueRepository(db),
		Feedback:      internal_repositories.NewFeedbackRepository(db),
		RoomContracts: internal_repositories.NewRoomContractRepository(db),
	}
}

func memoryRepositories(s *memrepo.Store) Repositories {
	return Repositories{
		Profiles:      s.Profiles,
		Invoices:      s.Invoices,
		Usage:         s.Usage,
		Updates:       s.Updates,
		QuickActions:  s.QuickActions,
		Payments:      s.Payments,
		Issues:        s.Issues,
		Feedback:      s.Feedback,
		RoomContracts: s.RoomContracts,
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
