package analytics

import (
	"context"
	"time"

	"github.com/strata-ai/strata/internal/core/domain"
	"github.com/strata-ai/strata/internal/store"
	"github.com/strata-ai/strata/internal/store/model"
	"go.uber.org/zap"
)

// Ingestor handles the asynchronous persistence of routing decisions. Append
// never blocks a routing call: the channel is buffered and overflow drops
// the decision with a warning.
type Ingestor interface {
	Append(d domain.RoutingDecision)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	decisions chan domain.RoutingDecision
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		decisions: make(chan domain.RoutingDecision, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

func (i *ingestor) Append(d domain.RoutingDecision) {
	select {
	case i.decisions <- d:
	default:
		i.logger.Warn("Decision buffer full, dropping decision", zap.String("id", d.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.decisions)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]domain.RoutingDecision, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		for _, d := range batch {
			if err := i.repo.Decisions().Log(context.Background(), model.FromDomain(d)); err != nil {
				i.logger.Error("Failed to persist decision", zap.String("id", d.ID), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case d, ok := <-i.decisions:
			if !ok {
				flush()
				return
			}
			batch = append(batch, d)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
