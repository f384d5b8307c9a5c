package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"crosspost-backend/internal/entity"
	"crosspost-backend/internal/repo"

	"github.com/labstack/gommon/log"
	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	outcomeTopic  = "post-outcomes"
	numPartitions = 3
)

// TopicConfig содержит настройки для создания топика
type TopicConfig struct {
	NumPartitions     int
	ReplicationFactor int
}

// OutcomeEventKafka публикует и читает события об исходах раздачи
type OutcomeEventKafka struct {
	writer  *kafka.Writer
	brokers []string
	groupID string
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(ctx context.Context, brokers []string, topic string, config TopicConfig) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	topicExists, err := checkIfTopicExists(conn, topic)
	if err != nil {
		return err
	}
	if topicExists {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     config.NumPartitions,
		ReplicationFactor: config.ReplicationFactor,
	})
}

// checkIfTopicExists проверяет, существует ли топик
func checkIfTopicExists(conn *kafka.Conn, topic string) (bool, error) {
	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		if errors.Is(err, kafka.UnknownTopicOrPartition) {
			return false, nil
		}
		return false, err
	}
	return len(partitions) > 0, nil
}

// maxReplicationFactor определяет возможный фактор репликации по числу брокеров
func maxReplicationFactor(ctx context.Context, brokers []string, desiredFactor int) int {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", brokers[0])
	if err != nil {
		log.Errorf("error connecting to kafka broker for metadata: %v", err)
		return min(len(brokers), desiredFactor)
	}
	defer func() { _ = conn.Close() }()

	brokerMetadata, err := conn.Brokers()
	if err != nil || len(brokerMetadata) == 0 {
		return min(len(brokers), desiredFactor)
	}
	return min(len(brokerMetadata), desiredFactor)
}

func NewOutcomeEvent(brokers []string, groupID string) (repo.OutcomeEvent, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topicConfig := TopicConfig{
		NumPartitions:     numPartitions,
		ReplicationFactor: maxReplicationFactor(ctx, brokers, 3),
	}
	if err := createTopicIfNotExists(ctx, brokers, outcomeTopic, topicConfig); err != nil {
		return nil, fmt.Errorf("error creating outcome topic: %w", err)
	}

	return &OutcomeEventKafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    outcomeTopic,
			Balancer: &kafka.LeastBytes{},
		},
		brokers: brokers,
		groupID: groupID,
	}, nil
}

func (o *OutcomeEventKafka) Publish(ctx context.Context, event *entity.PostOutcomeEvent) error {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}
	return o.writer.WriteMessages(ctx, kafka.Message{
		// ключ — аккаунт платформы: события одного аккаунта попадают в одну партицию
		Key:   []byte(string(event.Platform) + ":" + event.UserID),
		Value: payload,
	})
}

func (o *OutcomeEventKafka) Subscribe(ctx context.Context, handler func(event *entity.PostOutcomeEvent) error) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: o.brokers,
		Topic:   outcomeTopic,
		GroupID: o.groupID,
	})
	defer func() { _ = reader.Close() }()

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		event := &entity.PostOutcomeEvent{}
		if err := msgpack.Unmarshal(message.Value, event); err != nil {
			log.Errorf("error decoding outcome event: %v", err)
			continue
		}
		if err := handler(event); err != nil {
			// необработанное событие пропускаем, чтение не прерываем
			log.Errorf("error handling outcome event %s: %v", event.EventID, err)
		}
	}
}

func (o *OutcomeEventKafka) Close() error {
	return o.writer.Close()
}
