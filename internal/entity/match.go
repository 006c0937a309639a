package entity

const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDrawn   = "drawn"
)

const (
	ModeHuman = "pvp"
	ModeBot   = "bot"
)

const (
	OutcomeNone = ""
	OutcomeWin  = "win"
	OutcomeDraw = "draw"
)

// Rules are the per-series product decisions: board size, points credited
// for a win or a draw (each player) and the score that ends a series.
type Rules struct {
	BoardSize    int `json:"board_size"`
	WinPoints    int `json:"win_points"`
	DrawPoints   int `json:"draw_points"`
	SeriesTarget int `json:"series_target"`
}

func DefaultRules() Rules {
	return Rules{
		BoardSize:    3,
		WinPoints:    1,
		DrawPoints:   1,
		SeriesTarget: 3,
	}
}

// RoundResult is what a single move produced. The zero value means the move
// was rejected or the round simply continues.
type RoundResult struct {
	Outcome string  `json:"outcome"`
	Winner  *Player `json:"winner,omitempty"`
}

func (that RoundResult) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}

func (that RoundResult) IsDraw() bool {
	return that.Outcome == OutcomeDraw
}

// Match is the storable snapshot of a series in progress.
type Match struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode,omitempty"`
	Rules        Rules     `json:"rules"`
	Board        []Marker  `json:"board"`
	Players      [2]Player `json:"players"`
	Turn         int       `json:"turn"`
	Status       string    `json:"status"`
	Winner       Marker    `json:"winner,omitempty"`
	Round        int       `json:"round"`
	SeriesWinner Marker    `json:"series_winner,omitempty"`
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDrawn
}

func (that *Match) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Match) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Match) IsSeriesOver() bool {
	return that.SeriesWinner != MarkerNone
}

func (that *Match) Scores() [2]int {
	return [2]int{that.Players[0].Score, that.Players[1].Score}
}

// Clone returns a deep copy so stored snapshots never share the board slice.
func (that *Match) Clone() *Match {
	clone := *that
	clone.Board = append([]Marker(nil), that.Board...)

	return &clone
}
