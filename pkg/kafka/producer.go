package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"staybook/pkg/logger"
)

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	Compression  string // "none", "gzip", "snappy", "lz4", "zstd"
	MaxAttempts  int
	BatchTimeout time.Duration
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer     messageWriter
	topic      string
	middleware []ProducerMiddleware
	closed     bool
	mu         sync.RWMutex
}

// ProducerMiddleware allows intercepting publish operations
type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

func NewProducer(cfg ProducerConfig, log *logger.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	var compression compress.Compression
	switch cfg.Compression {
	case "none":
		compression = compress.None
	case "gzip":
		compression = compress.Gzip
	case "lz4":
		compression = compress.Lz4
	case "zstd":
		compression = compress.Zstd
	default:
		compression = compress.Snappy
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // Hash by key for ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  compression,
		MaxAttempts:  maxAttempts,
		BatchTimeout: cfg.BatchTimeout,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error(fmt.Sprintf(msg, args...), "topic", cfg.Topic)
		}),
	}

	return newProducer(writer, cfg.Topic), nil
}

func newProducer(w messageWriter, topic string) *Producer {
	return &Producer{
		writer:     w,
		topic:      topic,
		middleware: make([]ProducerMiddleware, 0),
	}
}

// Use adds middleware to the producer
func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

func (p *Producer) Topic() string {
	return p.topic
}

// Publish publishes a message to Kafka
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	chain := append([]ProducerMiddleware(nil), p.middleware...)
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}
	msg.Topic = p.topic

	handler := p.publishInternal
	for i := len(chain) - 1; i >= 0; i-- {
		middleware := chain[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return middleware(ctx, m, next)
		}
	}

	return handler(ctx, msg)
}

func (p *Producer) publishInternal(ctx context.Context, msg Message) error {
	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  msg.Timestamp,
	}
	for k, v := range msg.Headers {
		kafkaMsg.Headers = append(kafkaMsg.Headers, kafka.Header{
			Key:   k,
			Value: []byte(v),
		})
	}
	return p.writer.WriteMessages(ctx, kafkaMsg)
}

// Close closes the producer and releases resources
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
