package elevation

import (
	"encoding/binary"
	"fmt"

	"github.com/hikepath/routepipe/pkg/core"
)

// Grid is a decoded 3601x3601 HGT tile, row-major from north to south.
type Grid struct {
	Samples []int16
}

// DecodeGrid parses a raw (already decompressed) HGT byte slice.
func DecodeGrid(raw []byte) (*Grid, error) {
	if len(raw) != TileBytes {
		return nil, core.NewError(core.ErrInvalidTileData,
			fmt.Sprintf("expected %d bytes, got %d", TileBytes, len(raw)))
	}
	samples := make([]int16, GridSize*GridSize)
	for i := range samples {
		samples[i] = int16(binary.BigEndian.Uint16(raw[i*2 : i*2+2]))
	}
	return &Grid{Samples: samples}, nil
}

// at returns the sample at (row, col), clamping both to [0, GridSize-1].
func (g *Grid) at(row, col int) int16 {
	if row < 0 {
		row = 0
	}
	if row > GridSize-1 {
		row = GridSize - 1
	}
	if col < 0 {
		col = 0
	}
	if col > GridSize-1 {
		col = GridSize - 1
	}
	return g.Samples[row*GridSize+col]
}
