package engine

import (
	"log"
	"runtime"
	"runtime/debug"
)

// memWatch samples process heap usage every N batches. It is advisory
// instrumentation only: it warns at the soft watermark and requests a memory
// release at the hard watermark, but never blocks or fails the transfer.
type memWatch struct {
	every   int
	softMB  uint64
	hardMB  uint64
	batches int
}

func (w *memWatch) tick() {
	if w.every <= 0 {
		return
	}
	w.batches++
	if w.batches%w.every != 0 {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	heapMB := ms.HeapAlloc >> 20
	switch {
	case w.hardMB > 0 && heapMB > w.hardMB:
		log.Printf("Warning: heap usage %d MB above hard watermark %d MB, releasing memory to OS", heapMB, w.hardMB)
		debug.FreeOSMemory()
	case w.softMB > 0 && heapMB > w.softMB:
		log.Printf("Warning: heap usage %d MB above watermark %d MB", heapMB, w.softMB)
	}
}
