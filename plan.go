package gridkit

import (
	"fmt"

	gkerrors "github.com/tamirms/gridkit/errors"
	"github.com/tamirms/gridkit/imath"
)

// MaxResolution bounds the grid side so the cell count fits a uint32.
const MaxResolution = 1024

// Plan sizes a cubic grid of Resolution³ cells for a key count.
type Plan struct {
	Keys       int
	Resolution int // cells per axis
	Bits       int // bits per axis for Morton codes
	Cells      int
}

// NewPlan chooses the grid resolution so each cell holds about keysPerCell
// keys. The resolution is clamped to [1, MaxResolution].
func NewPlan(keys, keysPerCell int) (Plan, error) {
	if keys < 0 || keysPerCell <= 0 {
		return Plan{}, fmt.Errorf("plan for %d keys at %d per cell: %w", keys, keysPerCell, gkerrors.ErrInvalidPlan)
	}
	res := imath.Clamp(imath.Icbrt(imath.RoundDiv(keys, keysPerCell)), 1, MaxResolution)
	return Plan{
		Keys:       keys,
		Resolution: res,
		Bits:       imath.Ilog2(res),
		Cells:      res * res * res,
	}, nil
}

// Cell returns the linear cell id of (x, y, z); x varies fastest.
func (p Plan) Cell(x, y, z int) int {
	return x + p.Resolution*(y+p.Resolution*z)
}

// MortonOrder lists every cell id once, in Z-order of its coordinates.
// The curve is walked on the enclosing power-of-two cube and coordinates
// outside the grid are skipped.
func (p Plan) MortonOrder() []int {
	order := make([]int, 0, p.Cells)
	span := uint64(1) << (3 * p.Bits)
	for code := uint64(0); code < span; code++ {
		x, y, z := mortonDecode(code)
		if x >= p.Resolution || y >= p.Resolution || z >= p.Resolution {
			continue
		}
		order = append(order, p.Cell(x, y, z))
	}
	return order
}

// mortonDecode splits an interleaved code zyxzyx...zyx into its coordinates.
func mortonDecode(code uint64) (x, y, z int) {
	return int(compact3(code)), int(compact3(code >> 1)), int(compact3(code >> 2))
}

// compact3 gathers every third bit of v into the low bits.
func compact3(v uint64) uint64 {
	v &= 0x1249249249249249
	v = (v ^ v>>2) & 0x30C30C30C30C30C3
	v = (v ^ v>>4) & 0xF00F00F00F00F00F
	v = (v ^ v>>8) & 0x00FF0000FF0000FF
	v = (v ^ v>>16) & 0x00FF00000000FFFF
	v = (v ^ v>>32) & 0x1FFFFF
	return v
}
