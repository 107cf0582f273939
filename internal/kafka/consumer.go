package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"github.com/quentin418/clear-fashion/pkg/util"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultConsumeTimeout = 30 * time.Second
	defaultRetryDelay     = time.Second
	maxAttempts           = 3
)

type kafkaConsumer struct {
	reader         messageReader
	metrics        *prometheus.HistogramVec
	numWorkers     int
	consumeTimeout time.Duration
	retryDelay     time.Duration
	handler        ProductHandler
	done           chan struct{}
	stopOnce       sync.Once
	workerPool     *workerpool.WorkerPool

	commitMu sync.Mutex
	offsets  *offsetTracker
}

// NewConsumer creates the consumer of scraped product events.
func NewConsumer(conf *config.Config, handler ProductHandler) (Consumer, error) {
	if !conf.Kafka.Enabled {
		return &noopConsumer{}, nil
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     conf.Kafka.Brokers,
		Topic:       conf.Kafka.Topic,
		GroupID:     conf.Kafka.GroupID,
		StartOffset: kafka.FirstOffset,
	})
	return newConsumer(reader, max(conf.Kafka.MaxWorkers, 1), handler)
}

func newConsumer(reader messageReader, numWorkers int, handler ProductHandler) (*kafkaConsumer, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaConsumer{
		reader:         reader,
		metrics:        metrics,
		numWorkers:     numWorkers,
		consumeTimeout: defaultConsumeTimeout,
		retryDelay:     defaultRetryDelay,
		handler:        handler,
		done:           make(chan struct{}),
		workerPool:     workerpool.New(numWorkers),
		offsets:        newOffsetTracker(),
	}, nil
}

// Start blocks until ctx is done or Stop is called.
func (c *kafkaConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "starting kafka consumer for topic: %s", c.reader.Config().Topic)
	groupID := c.reader.Config().GroupID

	for ctx.Err() == nil {
		select {
		case <-c.done:
			return nil
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorw(ctx, "error fetching message", "error", err)
			continue
		}

		c.commitMu.Lock()
		c.offsets.track(msg)
		c.commitMu.Unlock()

		if c.numWorkers == 1 {
			c.processAndCommit(ctx, msg, groupID)
			continue
		}
		c.workerPool.Submit(func() {
			c.processAndCommit(ctx, msg, groupID)
		})
	}
	return nil
}

// Stop drains the in-flight messages and closes the reader.
func (c *kafkaConsumer) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		log.Infof(ctx, "stopping kafka consumer")
		close(c.done)
		c.workerPool.StopWait()
		err = c.reader.Close()
	})
	return err
}

// processAndCommit commits in offset order per partition, so a crash never
// skips a message still being processed by another worker.
func (c *kafkaConsumer) processAndCommit(ctx context.Context, msg kafka.Message, groupID string) {
	c.processMessage(ctx, msg, groupID)

	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	commit, ok := c.offsets.complete(msg)
	if !ok {
		return
	}
	if err := c.reader.CommitMessages(ctx, commit); err != nil {
		log.Errorw(ctx, "failed to commit message", "error", err, "offset", commit.Offset)
	}
}

func (c *kafkaConsumer) processMessage(ctx context.Context, msg kafka.Message, groupID string) {
	start := time.Now()
	lagMs := start.Sub(msg.Time).Milliseconds()

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = c.handle(ctx, msg)
		var retry *ErrRetry
		if !errors.As(err, &retry) || attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(retry.Delay):
			continue
		}
		break
	}
	duration := time.Since(start)

	code := getCode(err)
	content := "success"
	if err != nil {
		content = err.Error()
	}

	log.Logw(ctx, getLogLevel(code), content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, groupID).
		Observe(duration.Seconds())
}

func (c *kafkaConsumer) handle(msgCtx context.Context, msg kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	var event ProductEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return status.Errorf(codes.InvalidArgument, "unmarshal product event: %v", err)
	}
	if event.Pattern != PatternProductScraped {
		log.Debugw(msgCtx, "ignoring event", "pattern", event.Pattern)
		return nil
	}

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	if _, err := c.handler.Ingest(ctx, []models.Product{event.Data}); err != nil {
		return NewRetryError(err, c.retryDelay)
	}
	return nil
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	for unwrapped := errors.Unwrap(err); unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if st, ok := status.FromError(unwrapped); ok {
			return st.Code()
		}
	}
	return codes.Unknown
}

func getLogLevel(code codes.Code) zapcore.Level {
	switch code {
	case codes.OK:
		return zapcore.InfoLevel
	case codes.Canceled,
		codes.InvalidArgument,
		codes.NotFound,
		codes.AlreadyExists,
		codes.PermissionDenied,
		codes.Unauthenticated,
		codes.ResourceExhausted,
		codes.FailedPrecondition,
		codes.Aborted,
		codes.Unimplemented,
		codes.OutOfRange:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// noopConsumer is used when Kafka is disabled
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "kafka consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}
