package curve

import (
	"math/big"
	"sync"
)

// ScratchPool recycles the slices used to assemble a multi-scalar-
// multiplication input (points + scalars), narrowed to the two slice shapes
// SumOfProductsG1 takes. No verifier in this module draws from it; the
// multi-scalar-multiplication call sites allocate their own slices.
type ScratchPool struct {
	g1Slices     sync.Pool
	scalarSlices sync.Pool
}

// NewScratchPool returns a ready-to-use pool.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{
		g1Slices: sync.Pool{
			New: func() interface{} { return make([]G1, 0, 16) },
		},
		scalarSlices: sync.Pool{
			New: func() interface{} { return make([]Scalar, 0, 16) },
		},
	}
}

// GetG1Slice returns a zero-length slice with spare capacity.
func (p *ScratchPool) GetG1Slice() []G1 {
	return p.g1Slices.Get().([]G1)[:0]
}

// PutG1Slice returns a slice for reuse.
func (p *ScratchPool) PutG1Slice(s []G1) {
	p.g1Slices.Put(s) //nolint:staticcheck // intentional reuse of backing array
}

// GetScalarSlice returns a zero-length slice with spare capacity.
func (p *ScratchPool) GetScalarSlice() []Scalar {
	return p.scalarSlices.Get().([]Scalar)[:0]
}

// PutScalarSlice returns a slice for reuse.
func (p *ScratchPool) PutScalarSlice(s []Scalar) {
	p.scalarSlices.Put(s) //nolint:staticcheck
}

// Default is a package-level pool for callers that don't need isolated
// pools of their own.
var Default = NewScratchPool()

var bigIntOne = big.NewInt(1)
