// Package main is the entry point for the workbench API.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/hideyanjp01-maker/workbench/config"
	"github.com/hideyanjp01-maker/workbench/internal/consumers/ideas"
	"github.com/hideyanjp01-maker/workbench/internal/repositories/catalog"
	"github.com/hideyanjp01-maker/workbench/internal/repositories/planningproduct"
	dashboardsvc "github.com/hideyanjp01-maker/workbench/internal/services/dashboard"
	planningsvc "github.com/hideyanjp01-maker/workbench/internal/services/planning"
	"github.com/hideyanjp01-maker/workbench/pkg/database"
	"github.com/hideyanjp01-maker/workbench/pkg/dispatch"
	"github.com/hideyanjp01-maker/workbench/pkg/kafka"
	"github.com/hideyanjp01-maker/workbench/pkg/logging"
	"github.com/hideyanjp01-maker/workbench/pkg/middleware"
	"github.com/hideyanjp01-maker/workbench/pkg/redis"
	dashboardroutes "github.com/hideyanjp01-maker/workbench/pkg/routes/dashboard"
	"github.com/hideyanjp01-maker/workbench/pkg/routes/health"
	planningroutes "github.com/hideyanjp01-maker/workbench/pkg/routes/planning"
	"github.com/hideyanjp01-maker/workbench/pkg/sections"
	"github.com/hideyanjp01-maker/workbench/pkg/startup"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx := context.Background()

	shutdownTracer, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  cfg.AppName,
		Enabled:      cfg.TracingEnabled,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		OTLPProtocol: cfg.TracingOTLPProtocol,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer")
		}
	}()

	library, err := sections.Load(cfg.SectionConfigFolderPath)
	if err != nil {
		log.Fatalf("Failed to load section configs: %v", err)
	}
	logger.WithField("roles", library.RoleCount()).Info("Loaded dashboard section configs")

	var (
		db              database.DB
		redisClient     *redis.Client
		producer        *kafka.Producer
		consumer        *kafka.Consumer
		planningService *planningsvc.Service
		server          *echo.Echo
	)

	checker := health.NewChecker(nil, nil, version)

	st := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	st.AddDependency(startup.Func{
		Name: "database",
		StartFn: func(ctx context.Context) error {
			var err error
			db, err = database.Open(database.ConnConfig{
				Driver:          cfg.DatabaseDriver,
				Host:            cfg.DatabaseHost,
				Port:            cfg.DatabasePort,
				UserName:        cfg.DatabaseUserName,
				Password:        cfg.DatabasePassword,
				Name:            cfg.DatabaseName,
				SSLMode:         cfg.DatabaseSSLMode,
				MaxOpenConns:    cfg.DatabaseMaxOpenConns,
				MaxIdleConns:    cfg.DatabaseMaxIdleConns,
				ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
			}, logger)
			if err != nil {
				return err
			}

			driver, err := migratepg.WithInstance(db.Unsafe().DB, &migratepg.Config{})
			if err != nil {
				return err
			}

			migrations := database.NewMigrationService(logger, &database.MigrationConfig{
				MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
				Version:             uint(cfg.DatabaseMigrationVersion),
				Force:               cfg.DatabaseMigrationForce,
				AutoRollback:        cfg.DatabaseMigrationAutoRollback,
			})
			return migrations.Migrate(cfg.DatabaseName, driver)
		},
		StopFn: func(ctx context.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
	})

	st.AddDependency(startup.Func{
		Name: "redis",
		StartFn: func(ctx context.Context) error {
			var err error
			redisClient, err = redis.NewClient(redis.Config{
				Host:     cfg.RedisHost,
				Port:     cfg.RedisPort,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			}, logger)
			return err
		},
		StopFn: func(ctx context.Context) error {
			if redisClient == nil {
				return nil
			}
			return redisClient.Close()
		},
	})

	st.AddDependency(startup.Func{
		Name: "kafka-producer",
		StartFn: func(ctx context.Context) error {
			producerCfg := kafka.DefaultProducerConfig()
			producerCfg.Brokers = cfg.KafkaBrokers
			producerCfg.Topic = cfg.KafkaEventsTopic
			producerCfg.BatchSize = cfg.KafkaBatchSize
			producerCfg.BatchTimeout = time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond
			producerCfg.RequiredAcks = cfg.KafkaRequiredAcks
			producerCfg.Compression = cfg.KafkaCompression

			var err error
			producer, err = kafka.NewProducer(producerCfg, logger)
			return err
		},
		StopFn: func(ctx context.Context) error {
			if producer == nil {
				return nil
			}
			return producer.Close()
		},
	})

	// The repository serializes every mutation through one in-memory copy of
	// the state document, so the consumer and the HTTP server must share a
	// single service instance. Two instances over the same key would each
	// write the whole document through and clobber the other's records.
	st.AddDependency(startup.Func{
		Name:  "planning-service",
		Needs: []string{"database", "redis", "kafka-producer"},
		StartFn: func(ctx context.Context) error {
			snapshots := planningproduct.NewRedisSnapshots(redisClient, cfg.PlanningStateKey)
			repo := planningproduct.NewRepository(snapshots, logger)
			catalogRepo := catalog.NewRepository(db, logger)
			planningService = planningsvc.NewService(repo, catalogRepo, producer, logger)
			return nil
		},
	})

	if cfg.KafkaConsumerEnabled {
		st.AddDependency(startup.Func{
			Name:  "kafka-consumer",
			Needs: []string{"planning-service"},
			StartFn: func(ctx context.Context) error {
				consumerCfg := kafka.DefaultConsumerConfig()
				consumerCfg.Brokers = cfg.KafkaBrokers
				consumerCfg.Topic = cfg.KafkaIdeasTopic
				consumerCfg.GroupID = cfg.KafkaConsumerGroup

				var err error
				consumer, err = kafka.NewConsumer(consumerCfg, logger)
				if err != nil {
					return err
				}

				handler := ideas.NewHandler(planningService, logger)
				return consumer.Start(ctx, handler.Handle)
			},
			StopFn: func(ctx context.Context) error {
				if consumer == nil {
					return nil
				}
				return consumer.Stop()
			},
		})
	}

	st.AddDependency(startup.Func{
		Name:  "http-server",
		Needs: []string{"planning-service"},
		StartFn: func(ctx context.Context) error {
			server = buildServer(cfg, logger, library, db, redisClient, planningService, checker)

			go func() {
				srv := &http.Server{
					Addr:              fmt.Sprintf(":%d", cfg.Port),
					ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
					WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
					IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
					ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
					MaxHeaderBytes:    cfg.MaxHeaderBytes,
				}
				if err := server.StartServer(srv); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Error("HTTP server stopped unexpectedly")
				}
			}()

			return nil
		},
		StopFn: func(ctx context.Context) error {
			if server == nil {
				return nil
			}
			return server.Shutdown(ctx)
		},
	})

	if err := st.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	logger.WithField("port", cfg.Port).Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := st.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	} else {
		logger.Info("Shutdown complete")
	}
}

func buildServer(
	cfg config.Config,
	logger ectologger.Logger,
	library *sections.Library,
	db database.DB,
	redisClient *redis.Client,
	planningService *planningsvc.Service,
	checker *health.Checker,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	if cfg.AuthEnabled {
		auth, err := middleware.Authentication(logger, cfg.AuthIssuerURL, cfg.AuthClientID)
		if err != nil {
			log.Fatalf("Failed to configure authentication: %v", err)
		}
		e.Use(auth)
	} else {
		logger.Warn("Auth is disabled, trusting X-User-ID and X-Role headers")
		e.Use(middleware.TestAuth())
	}

	planningHandler := planningroutes.NewHandler(planningService, logger)
	planningHandler.Register(e.Group("/api/v1/planning"))

	catalogRepo := catalog.NewRepository(db, logger)
	engine := dispatch.NewEngine(logger)
	cache := dashboardsvc.NewRedisCache(redisClient)
	dashboardService := dashboardsvc.NewService(library, catalogRepo, engine, cache, cfg.DashboardCacheTTL, logger)
	dashboardHandler := dashboardroutes.NewHandler(dashboardService, logger)
	dashboardHandler.Register(e.Group("/api/v1/dashboards"))

	checker.SetPingers(
		health.PingerFunc(db.PingContext),
		health.PingerFunc(redisClient.Ping),
	)
	checker.Register(e)

	return e
}
