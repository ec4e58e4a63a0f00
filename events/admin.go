package events

import (
	"fmt"

	"github.com/IBM/sarama"

	"farmacia-compras/logger"
)

// EnsureTopicExists creates topic with a week of retention when it is missing
func EnsureTopicExists(brokers []string, topic string) error {
	config := sarama.NewConfig()
	config.Version = sarama.V2_1_0_0

	admin, err := sarama.NewClusterAdmin(brokers, config)
	if err != nil {
		return fmt.Errorf("failed to create kafka admin client: %w", err)
	}
	defer func() {
		if err := admin.Close(); err != nil {
			logger.Log.Warnf("⚠️  failed to close kafka admin: %v", err)
		}
	}()

	topics, err := admin.ListTopics()
	if err != nil {
		return fmt.Errorf("failed to list kafka topics: %w", err)
	}
	if _, exists := topics[topic]; exists {
		logger.Log.Infof("Kafka: topic '%s' already exists", topic)
		return nil
	}

	retention := "604800000"
	details := &sarama.TopicDetail{
		NumPartitions:     3,
		ReplicationFactor: 1,
		ConfigEntries:     map[string]*string{"retention.ms": &retention},
	}
	if err := admin.CreateTopic(topic, details, false); err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	logger.Log.Infof("Kafka: topic '%s' created", topic)
	return nil
}
