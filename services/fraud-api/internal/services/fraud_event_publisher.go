package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	kafkautils "github.com/nimeshabuddhika/fraud-prediction-api/pkg/kafka"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg/utils"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/configs"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

// FraudEventPublisher announces persisted flagged transactions to downstream consumers.
type FraudEventPublisher interface {
	PublishFlagged(ctx context.Context, event views.FraudFlaggedEvent) error
	Close()
}

// NoopFraudEventPublisher is used when no broker is configured.
type NoopFraudEventPublisher struct{}

func (NoopFraudEventPublisher) PublishFlagged(context.Context, views.FraudFlaggedEvent) error {
	return nil
}

func (NoopFraudEventPublisher) Close() {}

type KafkaFraudEventPublisher struct {
	logger     *zap.Logger
	producer   *kafka.Producer
	topic      string
	partitions uint32
}

// NewFraudEventPublisher ensures the topic exists and starts a producer.
// It returns a no-op publisher when KAFKA_BROKERS is empty.
func NewFraudEventPublisher(ctx context.Context, logger *zap.Logger, cnf *configs.Config) (FraudEventPublisher, error) {
	if utils.IsEmpty(cnf.KafkaBrokers) {
		logger.Info("fraud_events_disabled")
		return NoopFraudEventPublisher{}, nil
	}

	err := kafkautils.InitKafkaTopics(ctx, logger, kafkautils.KafkaConfig{
		BootstrapServers: cnf.KafkaBrokers,
		Topics: []kafkautils.TopicConfig{{
			Topic:             cnf.KafkaFraudTopic,
			NumPartitions:     int(cnf.KafkaPartition),
			ReplicationFactor: 1,
			Retention:         cnf.KafkaFraudRetention,
		}},
	})
	if err != nil {
		return nil, err
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cnf.KafkaBrokers,
		"acks":               "all",
		"enable.idempotence": "true",
	})
	if err != nil {
		return nil, err
	}
	logger.Info("kafka_producer_created", zap.String("brokers", cnf.KafkaBrokers), zap.String("topic", cnf.KafkaFraudTopic))
	go handleDeliveryReports(logger, p)

	return &KafkaFraudEventPublisher{
		logger:     logger,
		producer:   p,
		topic:      cnf.KafkaFraudTopic,
		partitions: cnf.KafkaPartition,
	}, nil
}

// PublishFlagged produces asynchronously; delivery failures are logged by handleDeliveryReports.
func (k *KafkaFraudEventPublisher) PublishFlagged(_ context.Context, event views.FraudFlaggedEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.topic,
			Partition: partitionFor(event.RecordID, k.partitions),
		},
		Key:   []byte(strconv.FormatInt(event.RecordID, 10)),
		Value: msg,
	}, nil)
}

func (k *KafkaFraudEventPublisher) Close() {
	if remaining := k.producer.Flush(5000); remaining > 0 {
		k.logger.Warn("kafka_unflushed_messages", zap.Int("count", remaining))
	}
	k.producer.Close()
}

func partitionFor(recordID int64, partitions uint32) int32 {
	if partitions == 0 {
		return kafka.PartitionAny
	}
	if recordID < 0 {
		recordID = -recordID
	}
	return int32(uint64(recordID) % uint64(partitions))
}

func handleDeliveryReports(logger *zap.Logger, p *kafka.Producer) {
	for e := range p.Events() {
		if ev, ok := e.(*kafka.Message); ok && ev.TopicPartition.Error != nil {
			logger.Error("fraud_event_delivery_failed", zap.Error(ev.TopicPartition.Error))
		}
	}
}
