package rabbitmq

import (
	"context"
	"fmt"
	"go-twocheckout/internal/pkg/logger"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends messages to durable queues over a shared channel that is
// reopened after a connection drop.
type Publisher struct {
	connManager *ConnectionManager
	queueOpts   *QueueConfig
	mu          sync.Mutex
	ch          *amqp.Channel
	declared    map[string]bool
}

func NewPublisher(connManager *ConnectionManager, queueOpts *QueueConfig) *Publisher {
	if queueOpts == nil {
		queueOpts = DefaultQueueConfig()
	}
	return &Publisher{
		connManager: connManager,
		queueOpts:   queueOpts,
		declared:    map[string]bool{},
	}
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.connManager.Channel()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	p.declared = map[string]bool{}
	return ch, nil
}

// Publish declares queueName on first use and publishes msg to it through the
// default exchange.
func (p *Publisher) Publish(ctx context.Context, queueName string, msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	if !p.declared[queueName] {
		_, err = ch.QueueDeclare(
			queueName,
			p.queueOpts.Durable,
			p.queueOpts.AutoDelete,
			p.queueOpts.Exclusive,
			p.queueOpts.NoWait,
			p.queueOpts.Args,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		p.declared[queueName] = true
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, *msg.GeneratePayload()); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	logger.Debug.Printf("published message %s to %s", msg.ID, queueName)
	return nil
}

func (p *Publisher) PublishEvent(ctx context.Context, queueName, pattern string, data interface{}) error {
	msg, err := NewEventMessage(pattern, data)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}
	return p.Publish(ctx, queueName, msg)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
