package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fknsrs.biz/p/ytbrowse/internal/catchpanic"
	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
	"fknsrs.biz/p/ytbrowse/internal/httpcache"
	"fknsrs.biz/p/ytbrowse/internal/ytapi"
)

type worker struct {
	name string
	run  func(ctx context.Context) error
}

// runAllWorkers runs every worker until ctx is done. A worker that returns
// cleanly is restarted; one that fails or panics stops all of them.
func runAllWorkers(ctx context.Context, workers []worker) error {
	g, ctx := errgroup.WithContext(ctx)

	for id, w := range workers {
		id, w := id, w

		g.Go(func() error {
			l := ctxlogger.GetLogger(ctx).WithFields(logrus.Fields{
				"worker.id":   id + 1,
				"worker.name": w.name,
			})

			ctx := ctxlogger.WithLogger(ctx, l)

			for ctx.Err() == nil {
				if err := catchpanic.CatchErr0(func() error { return w.run(ctx) }); err != nil {
					l.WithError(err).Error("worker failed")
					return fmt.Errorf("worker %d (%s) failed: %w", id+1, w.name, err)
				}

				if ctx.Err() != nil {
					break
				}

				l.Info("worker restarted")

				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}

			l.Info("worker stopped")

			return nil
		})
	}

	return g.Wait()
}

func runCachePruneWorker(ctx context.Context, schedule string, storage *httpcache.BBoltStorage) error {
	l := ctxlogger.GetLogger(ctx)

	c := cron.New()

	if _, err := c.AddFunc(schedule, func() {
		if err := catchpanic.CatchErr0(func() error {
			n, err := storage.Prune(time.Now().Add(-ytapi.CacheTTL))
			if err != nil {
				return err
			}

			l.WithField("cache.removed", n).Info("pruned response cache")

			return nil
		}); err != nil {
			l.WithError(err).Error("could not prune response cache")
		}
	}); err != nil {
		return fmt.Errorf("runCachePruneWorker: invalid schedule %q: %w", schedule, err)
	}

	l.WithField("args.schedule", schedule).Info("running cache prune worker")

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}
