package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomatch/server/config"
	"roomatch/server/internal/models"
)

// BatchProcessor drains the interaction queue into the database. Writes go
// through a transaction with ON CONFLICT DO NOTHING so replayed
// (user, listing, kind) events stay idempotent.
type BatchProcessor struct {
	db        *gorm.DB
	logger    *logrus.Logger
	config    *config.Config
	queue     *InteractionQueue
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance.
func NewBatchProcessor(db *gorm.DB, queue *InteractionQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing batches from the queue.
func (p *BatchProcessor) Start() {
	for i := 0; i < p.config.Ingestion.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.processLoop()
	}
}

// Stop gracefully shuts down the processor.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

func (p *BatchProcessor) processLoop() {
	defer p.waitGroup.Done()

	p.queue.Subscribe(func(batch []*models.InteractionEvent) error {
		return p.processBatch(batch)
	})
}

// processBatch persists a single batch with transaction and retry logic.
func (p *BatchProcessor) processBatch(batch []*models.InteractionEvent) error {
	var err error
	for attempt := 0; attempt <= p.config.Ingestion.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.Ingestion.MaxRetries)
			time.Sleep(time.Duration(p.config.Ingestion.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := upsertInteractions(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert interactions batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d interactions", len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.Ingestion.MaxRetries, err)
}

// upsertInteractions inserts the batch, silently skipping rows that hit the
// (user_id, listing_id, kind) unique constraint.
func upsertInteractions(tx *gorm.DB, batch []*models.InteractionEvent) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(batch).Error
}
