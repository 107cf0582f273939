package kafka

import (
	"context"

	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/segmentio/kafka-go"
)

type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ProductHandler stores products received from the topic.
type ProductHandler interface {
	Ingest(ctx context.Context, products []models.Product) (int64, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
