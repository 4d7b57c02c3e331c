package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter запись сообщений в Kafka (реализуется *kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink публикует событие о каждом уведомлении
type KafkaSink struct {
	writer MessageWriter
	topic  string
}

// NewKafkaWriter создаёт writer для списка брокеров
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaSink(writer MessageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: writer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

type notificationEvent struct {
	UserID    int64             `json:"user_id"`
	Kind      string            `json:"kind"`
	Payload   map[string]string `json:"payload"`
	CreatedAt int64             `json:"created_at"`
}

func (s *KafkaSink) Deliver(ctx context.Context, n *model.Notification) error {
	value, err := json.Marshal(notificationEvent{
		UserID:    n.UserID,
		Kind:      string(n.Kind),
		Payload:   n.Payload,
		CreatedAt: n.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: s.topic,
		Key:   []byte(strconv.FormatInt(n.UserID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(uuid.NewString())},
			{Key: "event_type", Value: []byte(n.Kind)},
		},
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
