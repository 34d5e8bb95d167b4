package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/avdm2017/microblog/internal/handlers"
	"github.com/avdm2017/microblog/internal/jwt"
	"github.com/avdm2017/microblog/internal/logger"
	"github.com/avdm2017/microblog/internal/middlewares"
	"github.com/avdm2017/microblog/internal/repositories"
	"github.com/avdm2017/microblog/internal/services"
	"github.com/avdm2017/microblog/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title microblog API
// @version 1.0.0
// @description Blog platform: registration, sessions, profiles, posts and search
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel, uniqueSlugs,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey,
		jwtSecret, jwtExp,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel, uniqueSlugs,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey,
		jwtSecret, jwtExp,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, S3, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort, logLevel string, uniqueSlugs bool,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey string,
	jwtSecretKey string, jwtExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	if uniqueSlugs, err = strconv.ParseBool(getEnv("APP_UNIQUE_SLUGS", "false")); err != nil {
		return
	}

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "microblog")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config; an empty address disables event publishing
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "microblog-content")

	// S3 config (MinIO-compatible) for profile pictures
	s3Region = getEnv("S3_REGION", "us-east-1")
	s3Endpoint = getEnv("S3_ENDPOINT", "http://localhost:9000")
	s3Bucket = getEnv("S3_BUCKET", "microblog-avatars")
	s3AccessKey = getEnv("S3_ACCESS_KEY", "minioadmin")
	s3SecretKey = getEnv("S3_SECRET_KEY", "minioadmin")

	// JWT config; zero expiry means tokens live until logout
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "0")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, S3 and HTTP server.
// It applies migrations, sets up routes and middleware, and handles
// graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel string, uniqueSlugs bool,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	s3Region, s3Endpoint, s3Bucket, s3AccessKey, s3SecretKey string,
	jwtSecretKey string, jwtExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", pgHost, pgPort, pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Apply schema migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Log.Fatal("migrations failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka writer for content events, optional
	var eventWriter services.KafkaWriter
	if kafkaAddr != "" {
		kw := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer kw.Close()
		eventWriter = kw
	}

	// S3 client for profile pictures
	s3Client, err := services.NewS3Client(ctx, s3Region, s3Endpoint, s3AccessKey, s3SecretKey)
	if err != nil {
		logger.Log.Fatal("S3 client error:", err)
	}
	avatarStorage := services.NewAvatarStorage(s3Client, s3Bucket)

	// Initialize JWT service
	tokenSvc := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	postReadRepo := repositories.NewPostReadRepository(db)
	postWriteRepo := repositories.NewPostWriteRepository(db)

	// Initialize services
	sessionSvc := services.NewSessionService(rdb)
	authSvc := services.NewAuthService(userReadRepo, userWriteRepo, tokenSvc, sessionSvc)
	userSvc := services.NewUserService(userReadRepo, userWriteRepo, avatarStorage)
	postSvc := services.NewPostService(postReadRepo, postWriteRepo, eventWriter, uniqueSlugs)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authSvc)
	loginHandler := handlers.NewLoginHandler(authSvc)
	logoutHandler := handlers.NewLogoutHandler(authSvc, tokenSvc)
	meHandler := handlers.NewMeHandler()
	updateProfileHandler := handlers.NewUpdateProfileHandler(userSvc)
	setAvatarHandler := handlers.NewSetAvatarHandler(userSvc)
	deleteUserHandler := handlers.NewDeleteUserHandler(userSvc)
	listUsersHandler := handlers.NewListUsersHandler(userSvc)
	createPostHandler := handlers.NewCreatePostHandler(postSvc)
	listPostsHandler := handlers.NewListPostsHandler(postSvc)
	myPostsHandler := handlers.NewMyPostsHandler(postSvc)
	getPostHandler := handlers.NewGetPostHandler(postSvc)
	searchPostsHandler := handlers.NewSearchPostsHandler(postSvc)
	replacePostHandler := handlers.NewReplacePostHandler(postSvc)
	deletePostHandler := handlers.NewDeletePostHandler(postSvc)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)
		r.Get("/posts", listPostsHandler)
		r.Get("/posts/search", searchPostsHandler)
		r.Get("/users/{username}/posts/{slug}", getPostHandler)

		// Protected routes with session-backed JWT auth
		authMiddleware := middlewares.AuthMiddleware(tokenSvc, sessionSvc, userReadRepo)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middlewares.TxMiddleware(db))

			r.Post("/logout", logoutHandler)
			r.Get("/me", meHandler)
			r.Get("/me/posts", myPostsHandler)

			r.Get("/users", listUsersHandler)
			r.Put("/users/{id}", updateProfileHandler)
			r.Post("/users/{id}/avatar", setAvatarHandler)
			r.Delete("/users/{id}", deleteUserHandler)

			r.Post("/posts", createPostHandler)
			r.Put("/posts/{id}", replacePostHandler)
			r.Delete("/posts/{id}", deletePostHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
