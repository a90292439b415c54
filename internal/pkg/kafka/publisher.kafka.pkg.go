package kafka

import (
	"context"
	"fmt"
	"go-twocheckout/internal/pkg/helper"
	"go-twocheckout/internal/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type eventBody struct {
	Pattern    string      `json:"type"`
	Data       interface{} `json:"data"`
	ID         string      `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events to Kafka topics. The topic is chosen per event so a
// single writer serves every destination.
type Publisher struct {
	writer writer
}

func NewPublisher(cfg *Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

// NewMessage wraps data in the event envelope. key keeps events of one cart
// on the same partition.
func NewMessage(topic, pattern, key string, data interface{}) (kafka.Message, error) {
	id := uuid.NewString()
	value, err := helper.JSONToByte(eventBody{
		Pattern:    pattern,
		Data:       data,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "id", Value: []byte(id)},
			{Key: "type", Value: []byte(pattern)},
		},
	}, nil
}

func (p *Publisher) PublishEvent(ctx context.Context, topic, pattern string, data interface{}) error {
	msg, err := NewMessage(topic, pattern, eventKey(data), data)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	logger.Debug.Printf("published %s to kafka topic %s", pattern, topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// keyed is implemented by events that carry a natural partition key.
type keyed interface {
	PartitionKey() string
}

func eventKey(data interface{}) string {
	if k, ok := data.(keyed); ok {
		return k.PartitionKey()
	}
	return ""
}
