package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/internal/usecase"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type producer struct {
	writer messageWriter
	now    func() time.Time
}

// NewProducer returns a publisher for scraped products. Publishing is a no-op
// when kafka is disabled.
func NewProducer(lc fx.Lifecycle, conf *config.Config) usecase.ProductPublisher {
	if !conf.Kafka.Enabled {
		return noopProducer{}
	}
	p := &producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(conf.Kafka.Brokers...),
			Topic:        conf.Kafka.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		now: time.Now,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.writer.Close()
		},
	})
	return p
}

func (p *producer) PublishProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	msgs, err := productMessages(products, p.now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}
	log.Infow(ctx, "published scraped products", "count", len(msgs))
	return nil
}

// productMessages keys every event by product id so updates of one product
// land on the same partition.
func productMessages(products []models.Product, at time.Time) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(products))
	for _, p := range products {
		value, err := json.Marshal(ProductEvent{
			Pattern:   PatternProductScraped,
			Data:      p,
			ScrapedAt: at,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal product %s: %w", p.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(p.ID),
			Value: value,
			Time:  at,
		})
	}
	return msgs, nil
}

type noopProducer struct{}

func (noopProducer) PublishProducts(context.Context, []models.Product) error {
	return nil
}
