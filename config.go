package gearcut

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrTargetSize = errors.New("TargetSize is required and must be 64B <= TargetSize <= 1GB")
var ErrMinSize = errors.New("MinSize is required and must be 1B <= MinSize < TargetSize")
var ErrMaxSize = errors.New("MaxSize is required and must be MaxSize > TargetSize and <= 1GB")
var ErrBufferSize = errors.New("BufferSize must not be negative")

// Config drives a Chunker.
type Config struct {
	Engine     EngineAlgo
	MinSize    int
	TargetSize int
	MaxSize    int

	// Seed selects the weight table; 0 means DefaultTable.
	Seed uint64

	// BufferSize is the read buffer of the Chunker.
	// Validate raises it to at least 2*MaxSize.
	BufferSize int
}

func DefaultConfig() *Config {
	return &Config{
		Engine:     Auto_Algo,
		MinSize:    2 * 1024,
		TargetSize: 10 * 1024,
		MaxSize:    64 * 1024,
	}
}

func (c *Config) Validate() error {
	const gig = 1024 * 1024 * 1024
	if c.TargetSize < 64 || c.TargetSize > gig {
		return fmt.Errorf("%w: got %v", ErrTargetSize, c.TargetSize)
	}
	if c.MinSize < 1 || c.MinSize >= c.TargetSize {
		return fmt.Errorf("%w: MinSize=%v, TargetSize=%v", ErrMinSize, c.MinSize, c.TargetSize)
	}
	if c.MaxSize <= c.TargetSize || c.MaxSize > gig {
		return fmt.Errorf("%w: MaxSize=%v, TargetSize=%v", ErrMaxSize, c.MaxSize, c.TargetSize)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: got %v", ErrBufferSize, c.BufferSize)
	}
	if c.BufferSize < 2*c.MaxSize {
		c.BufferSize = 2 * c.MaxSize
	}
	switch c.Engine {
	case Auto_Algo, Reference_Algo, Paired_Algo, Quad_Algo:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownEngine, c.Engine)
	}
	return nil
}

// Mask is MaskForTarget(c.TargetSize).
func (c *Config) Mask() uint64 {
	return MaskForTarget(c.TargetSize)
}

// MaskForTarget returns a mask with floor(log2(target))
// one bits, so a random hash matches about once every
// target bytes.
//
// Bit k of a gear hash depends only on the last k+1 bytes
// fed, so the ones are packed just under bit 63: low
// bits would cut on a tiny window. Bit 63 itself stays
// clear so the paired engine keeps its fast path.
func MaskForTarget(target int) uint64 {
	if target < 2 {
		return 0
	}
	n := bits.Len64(uint64(target)) - 1
	ones := uint64(1)<<n - 1
	return ones << (63 - n)
}
