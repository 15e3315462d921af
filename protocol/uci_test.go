package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUCIHandshake(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader("uci\nquit\n"))

	got := out.String()
	require.Contains(t, got, "id name "+EngineName)
	require.Contains(t, got, "id author "+EngineAuthor)
	require.Contains(t, got, "uciok")
}

func TestIsReady(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader("isready\nquit\n"))
	require.Contains(t, out.String(), "readyok")
}

func TestPositionStartposMoves(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader("position startpos moves e2e4 e7e5\nd\nquit\n"))

	got := out.String()
	require.Contains(t, got, "FEN: rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
}

func TestPositionFEN(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader(
		"position fen 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1\nd\nquit\n"))

	require.Contains(t, out.String(), "FEN: 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
}

func TestPerftCommand(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader("perft 2\nquit\n"))
	require.Contains(t, out.String(), "total nodes: 400")
}

func TestGoReportsBestMove(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out)
	d.Run(strings.NewReader(
		"position fen 6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1\ngo depth 3\nquit\n"))

	got := out.String()
	require.Contains(t, got, "bestmove a1a8")
}
