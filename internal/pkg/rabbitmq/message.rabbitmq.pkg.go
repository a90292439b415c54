package rabbitmq

import (
	"fmt"
	"go-twocheckout/internal/pkg/helper"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Message struct {
	ID          string      `json:"id"`
	Body        []byte      `json:"content"`
	Payload     interface{} `json:"payload"`
	Headers     amqp.Table  `json:"headers,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	ContentType string      `json:"content_type"`
}

// EventBody is the envelope every published event is wrapped in.
type EventBody struct {
	Pattern string      `json:"type"`
	Data    interface{} `json:"data"`
	ID      string      `json:"id"`
}

func newMessageID() (string, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("msg_%s_%d", gid, time.Now().Unix()), nil
}

func NewMessage(payload interface{}, headers *amqp.Table) (*Message, error) {
	id, err := newMessageID()
	if err != nil {
		return nil, err
	}

	var body []byte
	var contentType string
	switch v := payload.(type) {
	case string:
		body = []byte(v)
		contentType = "text/plain"
	case []byte:
		body = v
		contentType = "application/octet-stream"
	default:
		body, err = helper.JSONToByte(v)
		if err != nil {
			return nil, err
		}
		contentType = "application/json"
	}

	if headers == nil {
		headers = &amqp.Table{}
	}

	return &Message{
		ID:          id,
		Body:        body,
		Payload:     payload,
		Headers:     *headers,
		Timestamp:   time.Now(),
		ContentType: contentType,
	}, nil
}

// NewEventMessage wraps data in an EventBody tagged with pattern.
func NewEventMessage(pattern string, data interface{}) (*Message, error) {
	id, err := newMessageID()
	if err != nil {
		return nil, err
	}

	body, err := helper.JSONToByte(EventBody{Pattern: pattern, Data: data, ID: id})
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:          id,
		Body:        body,
		Payload:     data,
		Headers:     amqp.Table{"type": pattern},
		Timestamp:   time.Now(),
		ContentType: "application/json",
	}, nil
}

func (m *Message) GeneratePayload() *amqp.Publishing {
	m.Headers["id"] = m.ID

	return &amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}
