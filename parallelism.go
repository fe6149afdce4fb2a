package tabula

import (
	"runtime"
	"sync/atomic"
)

var parallelism atomic.Int32

func init() {
	parallelism.Store(int32(runtime.GOMAXPROCS(0)))
}

// Parallelism returns the maximum number of goroutines an operation may use
// internally when evaluating large Tables
func Parallelism() int {
	return int(parallelism.Load())
}

// SetParallelism configures the maximum number of goroutines an operation may
// use internally. Values below 1 are treated as 1. Output ordering is never
// affected by this setting.
func SetParallelism(n int) {
	if n < 1 {
		n = 1
	}
	parallelism.Store(int32(n))
}
