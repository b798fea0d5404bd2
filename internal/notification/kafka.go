package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the part of *kgo.Client the notifier needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaNotifier publishes notifications as JSON records keyed by destination.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

// NewKafkaNotifier builds a notifier producing to topic.
func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Send produces the message and waits for the broker acknowledgement.
func (n *KafkaNotifier) Send(ctx context.Context, message Message) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(message.Destination),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "kind", Value: []byte(message.Kind)},
		},
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification: %w", err)
	}
	return nil
}
