package tictactoe

import "github.com/rocketscienceinc/tictactoe-series/internal/entity"

// Cell holds a single marker. It does no validation: Board decides whether a
// write is allowed.
type Cell struct {
	value entity.Marker
}

func (that *Cell) Value() entity.Marker {
	return that.value
}

func (that *Cell) SetValue(marker entity.Marker) {
	that.value = marker
}

func (that *Cell) IsEmpty() bool {
	return that.value == entity.MarkerNone
}
