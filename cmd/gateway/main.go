package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	delivery "crosspost-backend/internal/delivery/http"
	"crosspost-backend/internal/delivery/http/utils"
	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"
	"crosspost-backend/internal/repo/cockroach"
	"crosspost-backend/internal/repo/kafka"
	redisrepo "crosspost-backend/internal/repo/redis"
	"crosspost-backend/internal/usecase"
	"crosspost-backend/internal/usecase/service"
	"crosspost-backend/internal/usecase/service/telegram"
	"crosspost-backend/internal/usecase/service/twitter"
	"crosspost-backend/internal/usecase/service/vkontakte"
	"crosspost-backend/pkg/connector"
	"crosspost-backend/pkg/goosehelper"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	defaultMaxParallelDispatch = 8
	defaultDailyQuota          = 300
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dsn := os.Getenv("CROSSPOST_DSN")
	dbConn, err := connector.GetCockroachConnector(dsn)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}
	goosehelper.MigrateUp(dbConn.DB, migrationsDir)
	if err := dbConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	dsn := os.Getenv("CROSSPOST_DSN")
	redisURL := os.Getenv("REDIS_URL")
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	jwtSecret := os.Getenv("JWT_SECRET")
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	twitterAPIBase := os.Getenv("TWITTER_API_BASE")
	serverAddress := os.Getenv("SERVER_ADDRESS")
	if serverAddress == "" {
		serverAddress = "0.0.0.0:80"
	}
	maxParallel := intEnv("MAX_PARALLEL_DISPATCH", defaultMaxParallelDispatch)
	dailyQuota := intEnv("DAILY_QUOTA", defaultDailyQuota)

	// cockroach
	dbConn, err := connector.GetCockroachConnector(dsn)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// minio
	minioClient, err := connector.GetMinioConnector(
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// запускаем сервисы репозиториев (подключение к хранилищам)
	signerRepo := cockroach.NewSigner(dbConn)
	channelRepo := cockroach.NewChannel(dbConn)
	rateLimitRepo := cockroach.NewRateLimit(dbConn)
	statsRepo := cockroach.NewStats(dbConn)
	uploadRepo, err := cockroach.NewUpload(dbConn, minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Upload: %v", err)
	}

	// счетчики использования живут в redis; без него используется cockroach
	var usageRepo repo.Usage
	if redisURL != "" {
		redisClient, err := connector.GetRedisConnector(redisURL)
		if err != nil {
			log.Fatalf("Ошибка при подключении к Redis: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Errorf("Ошибка при закрытии соединения с Redis: %v", err)
			}
		}()
		usageRepo = redisrepo.NewUsage(redisClient)
	} else {
		log.Info("REDIS_URL не задан, счетчики использования хранятся в базе данных")
		usageRepo = cockroach.NewUsage(dbConn)
	}

	// события об исходах публикуются по возможности: без kafka шлюз работает
	var outcomeRepo repo.OutcomeEvent
	if kafkaBrokers != "" {
		outcomeRepo, err = kafka.NewOutcomeEvent(strings.Split(kafkaBrokers, ","), "")
		if err != nil {
			log.Fatalf("Ошибка при подключении к Kafka: %v", err)
		}
		defer func() {
			if err := outcomeRepo.Close(); err != nil {
				log.Errorf("Ошибка при закрытии соединения с Kafka: %v", err)
			}
		}()
	} else {
		log.Info("KAFKA_BROKERS не задан, события об исходах не публикуются")
	}

	// запускаем сервисы usecase (бизнес-логика)
	registry := usecase.NewCapabilityRegistry()
	telegramCapability, err := telegram.NewCapability(telegramBotToken, channelRepo, uploadRepo, rateLimitRepo)
	if err != nil {
		log.Fatalf("Ошибка при создании Telegram Capability: %v", err)
	}
	registry.Register(entity.PlatformTelegram, telegramCapability)
	registry.Register(entity.PlatformVkontakte, vkontakte.NewCapability(channelRepo, uploadRepo))
	registry.Register(entity.PlatformTwitter, twitter.NewCapability(channelRepo, rateLimitRepo, twitterAPIBase))

	gate := service.NewRateLimitGate(usageRepo, rateLimitRepo, dailyQuota)
	normalizer := service.NewNormalizer(service.DefaultNativeCodeTable())
	dispatcher := service.NewDispatcher(registry, gate, normalizer, uploadRepo, outcomeRepo, maxParallel)
	signerUseCase := service.NewSigner(signerRepo)
	uploadUseCase := service.NewUpload(uploadRepo)
	channelUseCase := service.NewChannel(channelRepo)
	statsUseCase := service.NewStats(statsRepo)

	// запускаем сервисы delivery (обработка запросов)
	authManager := utils.NewAuthManager([]byte(jwtSecret), time.Hour*24*365)
	postDelivery := delivery.NewPost(authManager, dispatcher)
	signerDelivery := delivery.NewSigner(signerUseCase, authManager)
	uploadDelivery := delivery.NewUpload(uploadUseCase, authManager)
	channelDelivery := delivery.NewChannel(channelUseCase, authManager)
	statsDelivery := delivery.NewStats(statsUseCase, authManager)

	// REST API
	echoServer := echo.New()

	// Не более 10 МБ
	echoServer.Use(middleware.BodyLimit("10M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())

	// CORS
	echoServer.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, os.Getenv("CORS_ALLOW_ORIGIN"))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowMethods, strings.Join([]string{
				http.MethodGet,
				http.MethodPut,
				http.MethodPost,
				http.MethodDelete,
				http.MethodOptions,
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowHeaders, strings.Join([]string{
				echo.HeaderOrigin,
				echo.HeaderAccept,
				echo.HeaderXRequestedWith,
				echo.HeaderContentType,
				echo.HeaderAuthorization,
				echo.HeaderAccessControlRequestMethod,
				echo.HeaderAccessControlRequestHeaders,
				echo.HeaderCookie,
			}, ","))
			ctx.Response().Header().Set(echo.HeaderAccessControlAllowCredentials, "true")
			ctx.Response().Header().Set(echo.HeaderAccessControlMaxAge, "86400")
			return next(ctx)
		}
	})

	// Endpoints
	api := echoServer.Group("/api")
	// posts
	posts := api.Group("/posts")
	postDelivery.Configure(posts)
	// signers
	signers := api.Group("/signer")
	signerDelivery.Configure(signers)
	// uploads
	uploads := api.Group("/upload")
	uploadDelivery.Configure(uploads)
	// channels
	channels := api.Group("/channel")
	channelDelivery.Configure(channels)
	// stats
	stats := api.Group("/stats")
	statsDelivery.Configure(stats)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start(serverAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(10)*time.Second,
	)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}

func intEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Ошибка в переменной окружения %s: %v", name, err)
	}
	return value
}
