package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/auth"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/config"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/database"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/handler"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document/service"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/lock"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/storage"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/logger"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/metrics"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	if cfg.Log.Pretty {
		logger.SetOutput(os.Stdout, true)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v auth=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Enabled(), cfg.MinIO.Endpoint != "", cfg.AuthEnabled())

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v; using process-local locks", cfg.Redis.Addr(), err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
	}

	registry := plugin.NewDefaultRegistry()
	opts := []service.Option{service.WithProviders(registry)}
	if redisClient != nil {
		opts = append(opts, service.WithLocker(lock.NewRedisLocker(redisClient, "", cfg.Redis.LockTTL)))
	}

	var svc service.Service
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectTries,
			func(attempt int, err error) {
				logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, cfg.MongoDB.ConnectTries, err)
			})
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		svc, err = service.NewMongoService(ctx, col, opts...)
		if err != nil {
			logger.Fatalf("init document repository: %v", err)
		}
	} else {
		logger.Warnf("MONGODB_URI not set; revisions are kept in memory")
		svc = service.NewMemoryService(opts...)
	}

	var resolver handler.ResourceResolver
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("object storage unavailable, resources are returned unresolved: %v", err)
		} else {
			resolver = s
		}
	}

	verifier, err := buildVerifier(ctx, cfg)
	if err != nil {
		logger.Fatalf("init token verification: %v", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		redisOK := redisClient == nil || redisClient.Ping(c.Request.Context()).Err() == nil
		status := http.StatusOK
		if !redisOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"deps": gin.H{"redis": redisOK}, "uptime": time.Since(startTime).String()})
	})

	handler.RegisterSwagger(r)
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	if verifier != nil {
		api.Use(middleware.AuthMiddleware(verifier))
	} else {
		logger.Warnf("no token verifier configured; requests are recorded as %q", middleware.AnonymousUser)
	}
	handler.RegisterDocumentRoutes(api, svc, handler.Options{
		Providers:          registry,
		ClipboardOriginKey: cfg.Clipboard.OriginKey,
		Resolver:           resolver,
		PresignTTL:         cfg.MinIO.PresignTTL,
		WriteLimiter:       middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("document revision service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// buildVerifier returns nil when no verification is configured.
func buildVerifier(ctx context.Context, cfg *config.Config) (middleware.Verifier, error) {
	var chain auth.Chain
	if cfg.JWT.Secret != "" {
		v, err := auth.NewHMACVerifier(cfg.JWT.Secret)
		if err != nil {
			return nil, err
		}
		chain = append(chain, v)
	}
	if issuer := cfg.Keycloak.Issuer(); issuer != "" {
		v, err := auth.NewOIDCVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, v)
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}
