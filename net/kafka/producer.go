package kafka

import (
	"context"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/dhiraj-001/MLM-sub000/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config for the kafka producer
type Config struct {
	Brokers      []string      `mapstructure:"brokers"`
	EventsTopic  string        `mapstructure:"events_topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Enabled reports whether brokers are configured
func (cfg Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

// Publisher is implemented by the kafka producer and by test fakes
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// Producer publishes domain events to a single topic, keyed by user id
type Producer struct {
	writer  *kafkaGo.Writer
	timeout time.Duration
}

// NewProducer creates a producer for the configured topic
func NewProducer(cfg Config) *Producer {
	topic := cfg.EventsTopic
	if topic == "" {
		topic = "mlm_events"
	}
	timeout := cfg.WriteTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Producer{
		writer: &kafkaGo.Writer{
			Addr:         kafkaGo.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafkaGo.Hash{},
			RequiredAcks: kafkaGo.RequireOne,
			Async:        true,
		},
		timeout: timeout,
	}
}

// Publish encodes the event and writes it
func (p *Producer) Publish(ctx context.Context, event model.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(strconv.FormatUint(event.UserID, 10)),
		Value: value,
	})
}

// Close flushes pending messages
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events, used when kafka is not configured
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, event model.Event) error {
	log.Debug().Str("section", "kafka").Str("event", string(event.Type)).Msg("Kafka disabled, event dropped")
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
