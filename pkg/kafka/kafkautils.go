package kafkautils

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	BootstrapServers string
	Topics           []TopicConfig
	MaxElapsedTime   time.Duration // retry budget for topic creation, default 2m
}

type TopicConfig struct {
	Topic             string
	NumPartitions     int
	ReplicationFactor int
	Retention         time.Duration
}

// TopicSpecs converts the topic configs into admin specifications.
// Retention becomes retention.ms; a zero retention keeps the broker default.
func TopicSpecs(topics []TopicConfig) []kafka.TopicSpecification {
	specs := make([]kafka.TopicSpecification, 0, len(topics))
	for _, topic := range topics {
		cfg := map[string]string{"cleanup.policy": "delete"}
		if topic.Retention > 0 {
			cfg["retention.ms"] = strconv.FormatInt(topic.Retention.Milliseconds(), 10)
		}
		replication := topic.ReplicationFactor
		if replication < 1 {
			replication = 1
		}
		partitions := topic.NumPartitions
		if partitions < 1 {
			partitions = 1
		}
		specs = append(specs, kafka.TopicSpecification{
			Topic:             topic.Topic,
			NumPartitions:     partitions,
			ReplicationFactor: replication,
			Config:            cfg,
		})
	}
	return specs
}

// InitKafkaTopics creates the configured topics, retrying with exponential backoff.
// Topics that already exist are not an error.
func InitKafkaTopics(ctx context.Context, logger *zap.Logger, cnf KafkaConfig) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": cnf.BootstrapServers})
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	specs := TopicSpecs(cnf.Topics)
	operation := func() error {
		results, err := admin.CreateTopics(ctx, specs, kafka.SetAdminOperationTimeout(30*time.Second))
		if err != nil {
			return fmt.Errorf("failed to create topics: %w", err)
		}
		for _, result := range results {
			code := result.Error.Code()
			if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
				return fmt.Errorf("kafka topic %s creation failed: %v", result.Topic, result.Error)
			}
			logger.Info("kafka_topic_ready", zap.String("topic", result.Topic))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	if cnf.MaxElapsedTime > 0 {
		b.MaxElapsedTime = cnf.MaxElapsedTime
	}
	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}
