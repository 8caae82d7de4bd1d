package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/database/postgres"
	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/dataset"
	"github.com/ljy951110/BRS-prototype-sub000/infrastructure/repository"
	"github.com/ljy951110/BRS-prototype-sub000/internal/api"
	"github.com/ljy951110/BRS-prototype-sub000/internal/config"
	"github.com/ljy951110/BRS-prototype-sub000/internal/refdata"
	"github.com/ljy951110/BRS-prototype-sub000/internal/scheduler"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/analyzing"
	"github.com/ljy951110/BRS-prototype-sub000/internal/usecases/authenticating"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level: %s, falling back to 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calendar, err := refdata.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load reference calendar")
	}

	// Auth users always live in postgres; the customer collection is either
	// the embedded demo dataset or the customers table.
	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	authenticator := authenticating.NewService(userRepo, cfg)

	var customerSource repository.CustomerSource
	var trustSnapshotSyncService *scheduler.TrustSnapshotSyncService

	switch cfg.Data.Source {
	case config.DataSourcePostgres:
		customerRepo := repository.NewCustomerRepository(pgConn)
		customerSource = customerRepo

		trustSnapshotSyncService = scheduler.NewTrustSnapshotSyncService(customerRepo, calendar, cfg)
		if err := trustSnapshotSyncService.Start(ctx); err != nil {
			logrus.WithError(err).Error("Failed to start trust snapshot scheduler")
		} else {
			logrus.Info("Trust snapshot scheduler started")
		}

	default:
		staticSource, err := dataset.New()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load embedded customer dataset")
		}
		customerSource = staticSource

		logrus.WithField("source", cfg.Data.Source).
			Info("Using embedded customer dataset, trust snapshot scheduler disabled")
	}

	analyzer := analyzing.NewService(customerSource, calendar, cfg.Now)

	server, err := api.New(
		cfg,
		analyzer,
		authenticator,
		calendar,
		trustSnapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to ping PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
