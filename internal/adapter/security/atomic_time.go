package security

import (
	"sync/atomic"
	"time"
)

type atomicTime struct {
	nanos atomic.Int64
}

func (t *atomicTime) Store(v time.Time) { t.nanos.Store(v.UnixNano()) }

func (t *atomicTime) Load() time.Time { return time.Unix(0, t.nanos.Load()) }
