package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// topicAdmin is the part of *kafka.Conn used to provision topics
type topicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

var _ topicAdmin = (*kafka.Conn)(nil)

// topicSpec describes a topic the platform publishes to
type topicSpec struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
}

func (s topicSpec) config() kafka.TopicConfig {
	tc := kafka.TopicConfig{
		Topic:             s.Name,
		NumPartitions:     s.NumPartitions,
		ReplicationFactor: s.ReplicationFactor,
	}
	if tc.NumPartitions <= 0 {
		tc.NumPartitions = 1
	}
	if tc.ReplicationFactor <= 0 {
		tc.ReplicationFactor = 1
	}
	return tc
}

// Partition metadata can lag right after broker start, so reads are retried
var (
	topicReadAttempts = 5
	topicReadBackoff  = 2 * time.Second
)

// ensureTopic creates the topic unless its partitions can be read
func ensureTopic(admin topicAdmin, spec topicSpec, log *slog.Logger) error {
	var (
		partitions []kafka.Partition
		err        error
	)
	for attempt := 1; attempt <= topicReadAttempts; attempt++ {
		partitions, err = admin.ReadPartitions(spec.Name)
		if err == nil && len(partitions) > 0 {
			log.Info("Kafka topic already exists", "topic", spec.Name, "partitions", len(partitions))
			return nil
		}
		if attempt < topicReadAttempts {
			log.Warn("Could not read topic partitions, retrying", "topic", spec.Name, "attempt", attempt, "error", err)
			time.Sleep(topicReadBackoff)
		}
	}

	tc := spec.config()
	log.Info("Creating Kafka topic", "topic", spec.Name, "partitions", tc.NumPartitions, "replication_factor", tc.ReplicationFactor)
	if err := admin.CreateTopics(tc); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", spec.Name, err)
	}
	return nil
}
