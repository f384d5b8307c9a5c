package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"crosspost-backend/internal/repo/cockroach"
	"crosspost-backend/internal/repo/kafka"
	"crosspost-backend/internal/usecase/service"
	"crosspost-backend/pkg/connector"
	"crosspost-backend/pkg/goosehelper"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func init() {
	// Загружаем переменные окружения
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
	// Настройка контекста для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	// Получаем переменные окружения
	dsn := os.Getenv("CROSSPOST_DSN")
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	groupID := os.Getenv("STATS_WORKER_GROUP_ID")
	if groupID == "" {
		groupID = "stats-worker"
	}

	if kafkaBrokers == "" {
		log.Fatal("KAFKA_BROKERS переменная окружения обязательна")
	}

	// Подключение к базе данных
	dbConn, err := connector.GetCockroachConnector(dsn)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// Инициализация репозиториев
	statsRepo := cockroach.NewStats(dbConn)
	outcomeRepo, err := kafka.NewOutcomeEvent(strings.Split(kafkaBrokers, ","), groupID)
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}
	defer func() {
		if err := outcomeRepo.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с Kafka: %v", err)
		}
	}()

	// Создание и запуск воркера
	statsWorker := service.NewStatsWorker(outcomeRepo, statsRepo)

	log.Info("Воркер статистики запущен")
	if err := statsWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("Воркер статистики завершился с ошибкой: %v", err)
	}
	log.Info("Воркер статистики остановлен")
}
