package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paych/core/transfer"
	"paych/observability"
	"paych/storage/wal"
)

// EventHandler consumes the events produced by dispatched state changes: the
// message transport, the on-chain transaction submitter, telemetry sinks.
// Delivery semantics are the handler's responsibility; after a crash the
// replayed tail re-emits its events, so consumers must tolerate duplicates.
type EventHandler interface {
	Handle(events []transfer.Event)
}

// NoopHandler satisfies EventHandler while discarding all events.
type NoopHandler struct{}

func (NoopHandler) Handle([]transfer.Event) {}

// NodeConfig tunes the run loop.
type NodeConfig struct {
	// SnapshotInterval is the number of applied state changes between
	// snapshots. Zero disables periodic snapshots.
	SnapshotInterval uint64
	// QueueSize bounds the batch submission queue.
	QueueSize int
}

// Node is the single serialized owner of one state manager. External
// producers submit batches through Submit; one goroutine running Run applies
// them, so the manager itself never needs locking.
type Node struct {
	transition TransitionFunc
	log        *wal.Log
	handler    EventHandler
	logger     *slog.Logger
	metrics    *observability.Metrics
	cfg        NodeConfig

	batches chan []transfer.StateChange
	manager *StateManager

	lastSeq       uint64
	sinceSnapshot uint64
}

func NewNode(
	transition TransitionFunc,
	log *wal.Log,
	handler EventHandler,
	logger *slog.Logger,
	metrics *observability.Metrics,
	cfg NodeConfig,
) (*Node, error) {
	if transition == nil {
		return nil, fmt.Errorf("node: transition function must not be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("node: write-ahead log must not be nil")
	}
	if handler == nil {
		handler = NoopHandler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	return &Node{
		transition: transition,
		log:        log,
		handler:    handler,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
		batches:    make(chan []transfer.StateChange, cfg.QueueSize),
	}, nil
}

// Submit hands a batch to the run loop. Blocks while the queue is full;
// returns the context error if the caller gives up first.
func (n *Node) Submit(ctx context.Context, batch []transfer.StateChange) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	select {
	case n.batches <- batch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run restores state from the write-ahead log, then applies submitted
// batches until the context is cancelled or a transition contract violation
// makes the state suspect. Only this goroutine touches the state manager.
func (n *Node) Run(ctx context.Context) error {
	if err := n.restore(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch := <-n.batches:
			if err := n.apply(batch); err != nil {
				return err
			}
		}
	}
}

// CurrentState exposes the latest published state for inspection. Safe to
// call only from the run-loop goroutine or after Run returned.
func (n *Node) CurrentState() transfer.State {
	if n.manager == nil {
		return nil
	}
	return n.manager.CurrentState()
}

func (n *Node) restore() error {
	state, snapSeq, tail, err := n.log.Restore()
	if err != nil {
		return err
	}
	n.lastSeq = snapSeq + uint64(len(tail))

	n.manager, err = NewStateManager(n.transition, state, n.logger)
	if err != nil {
		return err
	}
	if len(tail) == 0 {
		return nil
	}

	// Replayed changes were already logged, so they go straight to the
	// manager. Their events are re-emitted; consumers own deduplication.
	_, eventLists, err := n.manager.Dispatch(tail)
	if err != nil {
		return fmt.Errorf("node: replaying %d logged changes: %w", len(tail), err)
	}
	for _, events := range eventLists {
		if len(events) > 0 {
			n.handler.Handle(events)
		}
	}
	n.logger.Info("replayed state changes from write-ahead log", "count", len(tail))
	return nil
}

func (n *Node) apply(batch []transfer.StateChange) error {
	for _, change := range batch {
		if _, err := n.log.Append(change); err != nil {
			return err
		}
		n.lastSeq++
		n.metrics.ObserveAppend()
	}

	start := time.Now()
	state, eventLists, err := n.manager.Dispatch(batch)
	if err != nil {
		n.metrics.ObserveBatchError()
		return err
	}

	produced := 0
	for _, events := range eventLists {
		produced += len(events)
		if len(events) > 0 {
			n.handler.Handle(events)
		}
	}
	n.metrics.ObserveBatch(len(batch), produced, time.Since(start))

	n.sinceSnapshot += uint64(len(batch))
	if n.cfg.SnapshotInterval > 0 && n.sinceSnapshot >= n.cfg.SnapshotInterval {
		if err := n.log.Snapshot(n.lastSeq, state); err != nil {
			return err
		}
		n.metrics.ObserveSnapshot()
		n.sinceSnapshot = 0
	}
	return nil
}
