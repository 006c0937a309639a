package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

// Renderer draws matches as text, coloured when the output supports it.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: termenv.NewOutput(w)}
}

// NewPlainRenderer never emits escape sequences.
func NewPlainRenderer(w io.Writer) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
}

// Board draws the grid. Empty cells show their 1-based number so players can
// pick them by typing it.
func (that *Renderer) Board(match *entity.Match) string {
	size := match.Rules.BoardSize
	width := len(strconv.Itoa(size * size))

	var sb strings.Builder

	separator := strings.Repeat("-", size*(width+3)-1)

	for row := 0; row < size; row++ {
		if row > 0 {
			sb.WriteString(separator)
			sb.WriteByte('\n')
		}

		cells := make([]string, size)
		for col := 0; col < size; col++ {
			index := row*size + col
			cells[col] = " " + that.cell(match.Board[index], index+1, width) + " "
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (that *Renderer) cell(marker entity.Marker, number, width int) string {
	switch marker {
	case entity.MarkerX:
		return that.out.String(pad(string(marker), width)).Foreground(that.out.Color("1")).Bold().String()
	case entity.MarkerO:
		return that.out.String(pad(string(marker), width)).Foreground(that.out.Color("4")).Bold().String()
	default:
		return that.out.String(pad(strconv.Itoa(number), width)).Faint().String()
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat(" ", width-len(s)) + s
}

// Scoreboard lists both players with their markers and points.
func (that *Renderer) Scoreboard(match *entity.Match) string {
	parts := make([]string, 0, len(match.Players))
	for _, player := range match.Players {
		parts = append(parts, fmt.Sprintf("%s (%s): %d", player.Name, player.Marker, player.Score))
	}

	header := that.out.String(fmt.Sprintf("Round %d", match.Round)).Underline().String()

	return fmt.Sprintf("%s  %s  first to %d\n", header, strings.Join(parts, "  "), match.Rules.SeriesTarget)
}

// Outcome describes a finished round, or returns "" while it is still running.
func (that *Renderer) Outcome(result entity.RoundResult) string {
	switch {
	case result.IsDraw():
		return that.out.String("It's a draw!").Bold().String()
	case result.IsTerminal() && result.Winner != nil:
		return that.out.String(fmt.Sprintf("%s wins the round!", result.Winner.Name)).Bold().String()
	default:
		return ""
	}
}

// Champion announces the series winner.
func (that *Renderer) Champion(match *entity.Match) string {
	for _, player := range match.Players {
		if player.Marker == match.SeriesWinner {
			text := fmt.Sprintf("%s wins the series %d-%d!", player.Name, match.Scores()[0], match.Scores()[1])
			return that.out.String(text).Foreground(that.out.Color("2")).Bold().String()
		}
	}

	return ""
}
