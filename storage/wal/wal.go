package wal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"paych/core/transfer"
	"paych/storage"
)

var (
	changePrefix = []byte("wal/change/")
	snapshotKey  = []byte("wal/snapshot")
)

type snapshotRecord struct {
	Seq   uint64          `json:"seq"`
	State json.RawMessage `json:"state"`
}

// Log is an append-only, ordered store of state changes plus a snapshot
// watermark, enabling crash recovery: restore the snapshot, then replay the
// tail of changes appended after it.
//
// Like the state manager it feeds, the log expects a single owner goroutine;
// it performs no locking of its own.
type Log struct {
	db      storage.Database
	reg     *Registry
	logger  *slog.Logger
	nextSeq uint64
}

// Open prepares a log over the given database. Registration of all state
// change and state variants must be complete before Open is called.
func Open(db storage.Database, reg *Registry, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := &Log{db: db, reg: reg, logger: logger, nextSeq: 1}

	// Resume the sequence counter after the highest appended change.
	err := db.Iterate(changePrefix, func(key, _ []byte) bool {
		seq, err := seqFromKey(key)
		if err == nil && seq >= log.nextSeq {
			log.nextSeq = seq + 1
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("wal: scanning changes: %w", err)
	}
	return log, nil
}

// Append stores one state change under the next sequence number and returns
// that number. Changes must be appended before they are dispatched, so a
// crash between the two replays the change instead of losing it.
func (l *Log) Append(change transfer.StateChange) (uint64, error) {
	if change == nil {
		return 0, errors.New("wal: cannot append a nil state change")
	}
	raw, err := l.reg.encodeStateChange(change)
	if err != nil {
		return 0, err
	}
	seq := l.nextSeq
	if err := l.db.Put(keyForSeq(seq), raw); err != nil {
		return 0, fmt.Errorf("wal: appending change %d: %w", seq, err)
	}
	l.nextSeq = seq + 1
	return seq, nil
}

// Snapshot records the state reached after applying the change with the
// given sequence number. Changes at or below the watermark are no longer
// replayed on restore.
func (l *Log) Snapshot(seq uint64, state transfer.State) error {
	if state == nil {
		return errors.New("wal: cannot snapshot a nil state")
	}
	raw, err := l.reg.encodeState(state)
	if err != nil {
		return err
	}
	record, err := json.Marshal(snapshotRecord{Seq: seq, State: raw})
	if err != nil {
		return fmt.Errorf("wal: encode snapshot record: %w", err)
	}
	if err := l.db.Put(snapshotKey, record); err != nil {
		return fmt.Errorf("wal: storing snapshot at %d: %w", seq, err)
	}
	l.logger.Debug("stored state snapshot", "seq", seq)
	return nil
}

// Restore returns the latest snapshot state (nil if none was ever taken),
// its sequence watermark, and the ordered tail of state changes appended
// after it. Replaying the tail through the same transition function that
// produced the snapshot reconstructs the pre-crash state.
func (l *Log) Restore() (transfer.State, uint64, []transfer.StateChange, error) {
	var (
		state   transfer.State
		snapSeq uint64
	)
	raw, err := l.db.Get(snapshotKey)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		// No snapshot yet, replay from the beginning.
	case err != nil:
		return nil, 0, nil, fmt.Errorf("wal: reading snapshot: %w", err)
	default:
		var record snapshotRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, 0, nil, fmt.Errorf("wal: decode snapshot record: %w", err)
		}
		state, err = l.reg.decodeState(record.State)
		if err != nil {
			return nil, 0, nil, err
		}
		snapSeq = record.Seq
	}

	var (
		tail      []transfer.StateChange
		decodeErr error
	)
	err = l.db.Iterate(changePrefix, func(key, value []byte) bool {
		seq, err := seqFromKey(key)
		if err != nil {
			decodeErr = err
			return false
		}
		if seq <= snapSeq {
			return true
		}
		change, err := l.reg.decodeStateChange(value)
		if err != nil {
			decodeErr = err
			return false
		}
		tail = append(tail, change)
		return true
	})
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		return nil, 0, nil, err
	}

	l.logger.Info("restored write-ahead log", "snapshot_seq", snapSeq, "tail_len", len(tail))
	return state, snapSeq, tail, nil
}

// keyForSeq encodes sequence numbers big-endian so the database's ascending
// key order is the append order.
func keyForSeq(seq uint64) []byte {
	key := make([]byte, len(changePrefix)+8)
	copy(key, changePrefix)
	binary.BigEndian.PutUint64(key[len(changePrefix):], seq)
	return key
}

func seqFromKey(key []byte) (uint64, error) {
	if len(key) != len(changePrefix)+8 {
		return 0, fmt.Errorf("wal: malformed change key %q", key)
	}
	return binary.BigEndian.Uint64(key[len(changePrefix):]), nil
}
