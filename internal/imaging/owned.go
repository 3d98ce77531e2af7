// Scoped ownership wrapper for image buffers
package imaging

import (
	"sync/atomic"

	"gocv.io/x/gocv"
)

var liveBuffers int64

// Owned wraps a gocv.Mat with single-owner release semantics. The owner of
// an Owned buffer must call Release exactly once; releasing twice is a
// programming error and panics. Receiving an Owned as input never transfers
// ownership; receiving one as a return value always does.
type Owned struct {
	mat      gocv.Mat
	released uint32
}

// Own takes ownership of a freshly allocated Mat.
func Own(mat gocv.Mat) *Owned {
	atomic.AddInt64(&liveBuffers, 1)
	return &Owned{mat: mat}
}

// Mat borrows the underlying buffer without transferring ownership.
func (o *Owned) Mat() gocv.Mat {
	return o.mat
}

// Release frees the underlying buffer. Exactly one call is allowed.
func (o *Owned) Release() {
	if !atomic.CompareAndSwapUint32(&o.released, 0, 1) {
		panic("imaging: buffer released twice")
	}
	atomic.AddInt64(&liveBuffers, -1)
	o.mat.Close()
}

// LiveCount reports the number of Owned buffers not yet released. Test
// harnesses use it to verify that a pipeline run leaks nothing.
func LiveCount() int64 {
	return atomic.LoadInt64(&liveBuffers)
}
