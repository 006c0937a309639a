package entity

// Marker identifies which player occupies a cell.
type Marker string

const (
	MarkerNone Marker = ""
	MarkerX    Marker = "X"
	MarkerO    Marker = "O"
)

const BotName = "BOT"

type Player struct {
	Name   string `json:"name"`
	Marker Marker `json:"marker"`
	Score  int    `json:"score"`
}

// Position is a zero-based board coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
