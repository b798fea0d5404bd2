package infra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
	assert.Nil(t, splitList(""))
}

func TestNewKafkaClientRequiresBrokers(t *testing.T) {
	_, err := NewKafkaClient(context.Background(), " , ", "topic")
	assert.Error(t, err)
}
