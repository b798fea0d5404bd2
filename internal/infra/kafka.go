package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// NewKafkaClient builds a producer client for the comma separated broker list
// and verifies that at least one broker answers.
func NewKafkaClient(ctx context.Context, brokers, topic string) (*kgo.Client, error) {
	seeds := splitList(brokers)
	if len(seeds) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return client, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
