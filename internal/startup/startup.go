// Package startup runs pre-flight checks before the server begins accepting
// webhook traffic. Probes run concurrently and the first failure aborts the rest.
package startup

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atiendebot/atiendebot/internal/genai"
	"github.com/atiendebot/atiendebot/internal/logger"
)

// DatabaseProber is the subset of the client registry used by pre-flight checks.
type DatabaseProber interface {
	Ready(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// Options configures the pre-flight checks.
type Options struct {
	// Timeout bounds the whole check run. Defaults to 10s.
	Timeout time.Duration
}

// Run probes the client registry and the generation provider concurrently.
// It returns the first error encountered, or nil when all probes pass.
func Run(ctx context.Context, db DatabaseProber, completer genai.Completer, log *logger.Logger, opts Options) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startTime := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := db.Ready(ctx); err != nil {
			log.WithError(err).Error("Client registry probe failed")
			return fmt.Errorf("client registry: %w", err)
		}

		count, err := db.Count(ctx)
		if err != nil {
			log.WithError(err).Error("Client registry count failed")
			return fmt.Errorf("client registry count: %w", err)
		}

		log.WithField("clients", count).Info("Client registry ready")
		return nil
	})

	g.Go(func() error {
		if completer == nil {
			return fmt.Errorf("generation provider: no provider configured")
		}

		log.WithField("provider", string(completer.Provider())).Info("Generation provider configured")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.WithField("duration", time.Since(startTime)).Info("Pre-flight checks passed")
	return nil
}
