package api

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var lastTimestamp int64

func newID() string { return uuid.NewString() }

// nextTimestamp returns strictly increasing nanosecond timestamps so change
// events carry a total order even when allocated in the same instant.
func nextTimestamp() int64 {
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastTimestamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, now) {
			return now
		}
	}
}
