package kafka

import (
	"context"

	"github.com/quentin418/clear-fashion/pkg/logger/log"
	"go.uber.org/fx"
)

// StartConsumeProducts runs the consumer for the lifetime of the fx app. The
// app is shut down if the consumer stops on its own.
func StartConsumeProducts(lc fx.Lifecycle, sd fx.Shutdowner, consumer Consumer) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				if err := consumer.Start(ctx); err != nil {
					log.Errorw(ctx, "kafka consumer stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			err := consumer.Stop(stopCtx)
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return err
		},
	})
}
