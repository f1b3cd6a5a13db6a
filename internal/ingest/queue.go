package ingest

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"roomatch/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// InteractionQueue is an in-memory queue for interaction event batches
// awaiting persistence.
type InteractionQueue struct {
	items    chan []*models.InteractionEvent
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.InteractionEvent) error
}

// NewInteractionQueue creates a new queue with the specified buffer size.
func NewInteractionQueue(bufferSize int, logger *logrus.Logger) *InteractionQueue {
	return &InteractionQueue{
		items:    make(chan []*models.InteractionEvent, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.InteractionEvent) error, 0),
	}
}

// Push adds a batch of interaction events to the queue.
func (q *InteractionQueue) Push(events []*models.InteractionEvent) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- events:
		q.logger.WithField("batch_size", len(events)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *InteractionQueue) Subscribe(handler func([]*models.InteractionEvent) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue.
func (q *InteractionQueue) Start() {
	go q.process()
}

func (q *InteractionQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

func (q *InteractionQueue) processBatch(batch []*models.InteractionEvent) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added.
func (q *InteractionQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue.
func (q *InteractionQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *InteractionQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
