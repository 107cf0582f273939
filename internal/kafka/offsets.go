package kafka

import (
	"github.com/segmentio/kafka-go"
)

// offsetTracker releases offsets for commit in fetch order per partition, so
// a message finished early by one worker is only committed once every
// earlier message of its partition is finished too. Not safe for concurrent
// use.
type offsetTracker struct {
	pending map[int][]int64
	done    map[int]map[int64]kafka.Message
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{
		pending: make(map[int][]int64),
		done:    make(map[int]map[int64]kafka.Message),
	}
}

// track registers a fetched message. Messages of a partition must be tracked
// in offset order.
func (t *offsetTracker) track(msg kafka.Message) {
	t.pending[msg.Partition] = append(t.pending[msg.Partition], msg.Offset)
}

// complete marks msg finished and returns the highest message of its
// partition that is now safe to commit.
func (t *offsetTracker) complete(msg kafka.Message) (kafka.Message, bool) {
	done := t.done[msg.Partition]
	if done == nil {
		done = make(map[int64]kafka.Message)
		t.done[msg.Partition] = done
	}
	done[msg.Offset] = msg

	var (
		last  kafka.Message
		found bool
	)
	pending := t.pending[msg.Partition]
	for len(pending) > 0 {
		m, ok := done[pending[0]]
		if !ok {
			break
		}
		delete(done, pending[0])
		pending = pending[1:]
		last, found = m, true
	}
	t.pending[msg.Partition] = pending
	return last, found
}
