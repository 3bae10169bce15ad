package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/primex/docs-cms/handlers"
	"github.com/primex/docs-cms/internal/auth"
	"github.com/primex/docs-cms/internal/categories"
	"github.com/primex/docs-cms/internal/config"
	"github.com/primex/docs-cms/internal/database"
	"github.com/primex/docs-cms/internal/docs"
	docsrepo "github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/editor"
	"github.com/primex/docs-cms/internal/search"
	"github.com/primex/docs-cms/internal/storage"
	"github.com/primex/docs-cms/pkg/logger"
	"github.com/primex/docs-cms/pkg/metrics"
	"github.com/primex/docs-cms/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v oidc=%v env=%s",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Auth.Issuer != "", cfg.Server.Environment)

	ctx := context.Background()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter and session store can use it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB with retry/backoff to tolerate startup races
	var mongoOK bool
	var docRepo docsrepo.Repository = docsrepo.NewMemoryRepo()
	var catRepo categories.Repository = categories.NewMemoryRepo()
	var userRepo auth.UserRepository = auth.NewMemoryUserRepository()
	var sessionRepo auth.SessionRepository

	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			c, errConn := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				client = c
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if client == nil {
			logger.Warnf("could not connect to MongoDB; falling back to in-memory stores")
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			docRepo = docsrepo.NewMongoRepo(db.Collection("documents"))
			catRepo = categories.NewMongoRepo(db.Collection("categories"))
			userRepo = auth.NewMongoUserRepository(db.Collection("users"))
			sessionRepo = auth.NewMongoSessionRepository(db.Collection("sessions"))
			mongoOK = true
		}
	}
	// Prefer Redis-based sessions when available (fast, TTL handled by Redis)
	if redisClient != nil {
		sessionRepo = auth.NewRedisSessionRepository(redisClient, "session:")
		logger.Infof("using Redis for session storage")
	}
	if sessionRepo == nil {
		sessionRepo = auth.NewMemorySessionRepository()
		logger.Warnf("no Redis or MongoDB session store configured; sessions are in-memory")
	}

	// Optional MinIO artifact export for published MDX
	var docOpts []docs.Option
	if os.Getenv("MINIO_ENDPOINT") != "" {
		store, err := storage.NewMinIOStorage(storage.LoadMinIOConfig())
		if err != nil {
			logger.Warnf("MinIO artifact store unavailable: %v", err)
		} else {
			docOpts = append(docOpts, docs.WithArtifactStore(store))
			logger.Infof("publishing MDX artifacts to MinIO")
		}
	}

	// Search index over the published corpus, refreshed on publish.
	idx := search.NewIndex()
	docOpts = append(docOpts, docs.WithPublishListener(idx))

	docSvc := docs.NewService(docRepo, docOpts...)
	catSvc := categories.NewService(catRepo, docRepo)
	userSvc := auth.NewService(userRepo, cfg.Auth.AdminEmails)
	sessionSvc := auth.NewSessionService(sessionRepo)

	// Load the published corpus into the search index.
	if metas, err := docSvc.ListPublished(ctx); err != nil {
		logger.Warnf("search index startup load failed: %v", err)
	} else {
		entries := make([]search.Document, 0, len(metas))
		for _, m := range metas {
			pd, err := docSvc.GetPublished(ctx, m.ID)
			if err != nil {
				logger.Warnf("skipping %s during index load: %v", m.ID, err)
				continue
			}
			entries = append(entries, search.FromEditorDocument(editor.Document{Metadata: pd.Metadata}, pd.MDXContent))
		}
		idx.Initialize(entries)
		logger.Infof("search index initialized with %d documents", len(entries))
	}

	// Token verifier: OIDC when an issuer is configured, shared-secret HMAC
	// otherwise. The insecure verifier is an explicit opt-in for integration
	// environments without an identity provider.
	var verifier middleware.Verifier
	switch {
	case cfg.Auth.Issuer != "":
		ver, err := auth.NewOIDCVerifier(ctx, cfg.Auth.Issuer, cfg.Auth.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	case cfg.Auth.Insecure:
		logger.Warnf("enabling insecure token verifier (integration mode)")
		verifier = auth.NewInsecureVerifier()
	case cfg.JWT.Secret != "":
		verifier = auth.NewHMACVerifier(cfg.JWT.Secret)
	}
	if verifier == nil {
		logger.Warnf("no token verifier configured; protected routes are unavailable")
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"auth":    verifier != nil,
			"storage": true,
		}
		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoOK
			ready = ready && mongoOK
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			ready = ready && redisClient != nil
		}
		ready = ready && verifier != nil
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	responder := handlers.Responder{Environment: cfg.Server.Environment}
	docsHandler := handlers.NewDocsHandler(docSvc, responder)
	catsHandler := handlers.NewCategoriesHandler(catSvc, responder)
	searchHandler := handlers.NewSearchHandler(idx, responder)
	sessionHandler := handlers.NewSessionHandler(userSvc, sessionSvc, verifier, cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, responder)

	public := r.Group("/api")
	docsHandler.RegisterPublic(public)
	searchHandler.Register(public)
	if verifier != nil {
		sessionHandler.Register(public)
		protected := r.Group("/api", middleware.AuthMiddleware(verifier))
		docsHandler.Register(protected)
		catsHandler.Register(protected)
		sessionHandler.RegisterProtected(protected)
	}

	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting docs-cms on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
