// Package kafka adapts the serde to confluent-kafka-go messages.
package kafka

import (
	"context"
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/observability"
	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ValueSerializer is satisfied by *serialization.Serializer.
type ValueSerializer interface {
	Serialize(ctx context.Context, topic string, isKey bool, v *schema.DataAndSchema) ([]byte, error)
}

// ValueDeserializer is satisfied by *deserialization.Deserializer.
type ValueDeserializer interface {
	Deserialize(ctx context.Context, topic string, data []byte) (*schema.DataAndSchema, error)
}

// Producer is the subset of *kafka.Producer used by MessageSerializer.Send.
type Producer interface {
	Produce(message *kafka.Message, deliveryChan chan kafka.Event) error
}

// MessageSerializer builds Kafka messages whose key and value are in the Glue wire format.
type MessageSerializer struct {
	serializer ValueSerializer
	log        *zap.Logger
	tracer     trace.Tracer
}

// Option configures a MessageSerializer.
type Option func(*MessageSerializer)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *MessageSerializer) {
		if tp != nil {
			s.tracer = tp.Tracer(instrumentationName)
		}
	}
}

func NewMessageSerializer(serializer ValueSerializer, log *zap.Logger, opts ...Option) *MessageSerializer {
	if log == nil {
		log = zap.NewNop()
	}
	s := &MessageSerializer{
		serializer: serializer,
		log:        log,
		tracer:     otel.GetTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Message serializes key and value for topic. Either may be nil.
// The trace context of ctx, if any, is carried in the message headers.
func (s *MessageSerializer) Message(ctx context.Context, topic string, key, value *schema.DataAndSchema) (*kafka.Message, error) {
	keyBytes, err := s.serializer.Serialize(ctx, topic, true, key)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize key for topic %s: %w", topic, err)
	}

	valueBytes, err := s.serializer.Serialize(ctx, topic, false, value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize value for topic %s: %w", topic, err)
	}

	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            keyBytes,
		Value:          valueBytes,
	}
	InjectContext(ctx, message)
	return message, nil
}

// Send serializes and produces one message, then waits for its delivery report.
func (s *MessageSerializer) Send(ctx context.Context, producer Producer, topic string, key, value *schema.DataAndSchema) (err error) {
	ctx, span := startProducerSpan(ctx, s.tracer, topic)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	message, err := s.Message(ctx, topic, key, value)
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)
	if err := producer.Produce(message, deliveryChan); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case event := <-deliveryChan:
		delivered, ok := event.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event for topic %s: %v", topic, event)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("failed to deliver message to topic %s: %w", topic, delivered.TopicPartition.Error)
		}
		observability.LoggerWithTrace(ctx, s.log).Debug("message delivered",
			zap.String("topic", topic),
			zap.Int32("partition", delivered.TopicPartition.Partition),
			zap.Int64("offset", int64(delivered.TopicPartition.Offset)),
		)
		return nil
	}
}

// MessageDeserializer reads the key and value of consumed Kafka messages.
type MessageDeserializer struct {
	deserializer ValueDeserializer
}

func NewMessageDeserializer(deserializer ValueDeserializer) *MessageDeserializer {
	return &MessageDeserializer{deserializer: deserializer}
}

// Context returns ctx carrying the producer's trace context from the message headers.
func (d *MessageDeserializer) Context(ctx context.Context, message *kafka.Message) context.Context {
	return ExtractContext(ctx, message)
}

// Value deserializes the message value. A tombstone yields nil.
func (d *MessageDeserializer) Value(ctx context.Context, message *kafka.Message) (*schema.DataAndSchema, error) {
	return d.read(ctx, message, message.Value, "value")
}

// Key deserializes the message key. A missing key yields nil.
func (d *MessageDeserializer) Key(ctx context.Context, message *kafka.Message) (*schema.DataAndSchema, error) {
	return d.read(ctx, message, message.Key, "key")
}

func (d *MessageDeserializer) read(ctx context.Context, message *kafka.Message, data []byte, part string) (*schema.DataAndSchema, error) {
	topic := topicOf(message)

	result, err := d.deserializer.Deserialize(ctx, topic, data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize %s from %s [%d] at offset %v: %w",
			part, topic, message.TopicPartition.Partition, message.TopicPartition.Offset, err)
	}
	return result, nil
}

func topicOf(message *kafka.Message) string {
	if message.TopicPartition.Topic == nil {
		return ""
	}
	return *message.TopicPartition.Topic
}
