package syncutils

import "sync/atomic"

// AtomicBool is a boolean flag safe for concurrent use, used by stores to
// mark themselves closed.
type AtomicBool uint32

func (b *AtomicBool) Set(v bool) {
	s := uint32(0)
	if v {
		s = 1
	}
	atomic.StoreUint32((*uint32)(b), s)
}

func (b *AtomicBool) Get() bool {
	return atomic.LoadUint32((*uint32)(b)) != 0
}

// CompareAndSwap sets the flag to new only if it currently equals old.
func (b *AtomicBool) CompareAndSwap(old, new bool) bool {
	o, n := uint32(0), uint32(0)
	if old {
		o = 1
	}
	if new {
		n = 1
	}
	return atomic.CompareAndSwapUint32((*uint32)(b), o, n)
}
