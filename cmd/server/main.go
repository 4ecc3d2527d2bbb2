package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/config"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/firebase"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/firestore"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/memory"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/rabbitmq"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/redis"
	"github.com/thanhthanh221/identity-gateway/pkg/infrastructure/repositories"
	"github.com/thanhthanh221/identity-gateway/pkg/logger"
	"github.com/thanhthanh221/identity-gateway/pkg/observability"
	"github.com/thanhthanh221/identity-gateway/pkg/server"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	gofirebase "firebase.google.com/go/v4"
)

// @title Identity Gateway
// @version 1.0
// @description Bearer-token gate and user management over Firebase Authentication
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Environment)
	if err := common.InitGlobalI18n(cfg.DefaultLocale); err != nil {
		log.WithError(err).Fatal("initialize i18n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("application stopped with error")
	}
	log.Info("application exited cleanly")
}

// run builds every collaborator, serves until ctx is cancelled, then releases them in reverse order
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) (err error) {
	var closers []func(context.Context) error
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if closeErr := closers[i](shutdownCtx); closeErr != nil {
				log.WithError(closeErr).Error("release resource")
			}
		}
	}()

	tracerProvider, shutdownTracing, err := observability.Setup(ctx, observability.Config{
		Enabled:      cfg.EnableTracing,
		OTLPEndpoint: cfg.OTLPEndpoint,
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	closers = append(closers, shutdownTracing)

	var app *gofirebase.App
	if cfg.NeedsFirebase() {
		app, err = firebase.NewApp(ctx, firebase.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
		})
		if err != nil {
			return err
		}
	}

	var authClient *firebase.AuthClient
	if cfg.AuthVerifier == config.VerifierFirebase || cfg.IdentityProvider == config.ProviderFirebase {
		authClient, err = firebase.NewAuthClient(ctx, app, log)
		if err != nil {
			return err
		}
	}

	var db *gorm.DB
	if cfg.NeedsDatabase() {
		db, err = repositories.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		if err := repositories.Migrate(db); err != nil {
			return err
		}
	}

	var verifier services.TokenVerifier
	switch cfg.AuthVerifier {
	case config.VerifierJWT:
		verifier = services.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	default:
		verifier = authClient
	}

	var provider services.IdentityProvider
	switch cfg.IdentityProvider {
	case config.ProviderLocal:
		provider = repositories.NewUserRepository(repositories.NewGormRepository(db, log, tracerProvider))
	default:
		provider = authClient
	}

	profiles, closeProfiles, err := newProfileStore(ctx, cfg, app, db, log, tracerProvider)
	if err != nil {
		return err
	}
	if closeProfiles != nil {
		closers = append(closers, closeProfiles)
	}

	var events services.EventPublisher = services.NoopPublisher{}
	if cfg.EventsEnabled() {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.EventsExchange, log, tracerProvider)
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return publisher.Close() })
		events = publisher
	}

	srv := server.New(server.Options{
		Logger:           log,
		TracerProvider:   tracerProvider,
		Verifier:         verifier,
		Provider:         provider,
		Profiles:         profiles,
		Events:           events,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		MetricsAPIKey:    cfg.MetricsAPIKey,
	})

	log.WithFields(logrus.Fields{
		"verifier":      cfg.AuthVerifier,
		"provider":      cfg.IdentityProvider,
		"profile_store": cfg.ProfileStore,
		"events":        cfg.EventsEnabled(),
	}).Info("identity gateway configured")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func newProfileStore(ctx context.Context, cfg *config.Config, app *gofirebase.App, db *gorm.DB, log *logrus.Logger, tracerProvider trace.TracerProvider) (services.ProfileStore, func(context.Context) error, error) {
	switch cfg.ProfileStore {
	case config.StoreRedis:
		client, err := redis.NewRedisClient(cfg.RedisCluster, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisPrefix, tracerProvider)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return redis.NewProfileStore(client), closeWith(client), nil
	case config.StorePostgres:
		return repositories.NewProfileRepository(repositories.NewGormRepository(db, log, tracerProvider)), nil, nil
	case config.StoreMemory:
		log.Warn("profiles are kept in memory and lost on restart")
		return memory.NewProfileStore(), nil, nil
	default:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create firestore client: %w", err)
		}
		return firestore.NewProfileStore(client, cfg.ProfileCollection), closeWith(client), nil
	}
}

func closeWith(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
