package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPerft checks node counts at well-known perft positions - the standard
// way of cross-checking a move generator against an independently verified
// reference.
func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []uint64 // index i = depth i+1
	}{
		{
			name:     "starting position",
			fen:      StartFEN,
			expected: []uint64{20, 400, 8902, 197281},
		},
		{
			name:     "kiwipete",
			fen:      KiwipeteFEN,
			expected: []uint64{48, 2039, 97862},
		},
		{
			name:     "position 3",
			fen:      "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
			expected: []uint64{14, 191, 2812, 43238},
		},
		{
			name:     "position 5",
			fen:      "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			expected: []uint64{44, 1486, 62379},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pos Position
			pos.SetFEN(tt.fen)

			for i, want := range tt.expected {
				depth := i + 1
				t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
					got := Perft(&pos, depth)
					require.Equal(t, want, got, "Perft(%d) on %q", depth, tt.fen)
				})
			}
		})
	}
}

func TestDividePerftSumsToPerft(t *testing.T) {
	var pos Position
	pos.SetFEN(StartFEN)

	entries, total := DividePerft(&pos, 3)
	require.Len(t, entries, 20)

	var sum uint64
	for _, e := range entries {
		sum += e.Nodes
	}
	require.Equal(t, total, sum)
	require.Equal(t, Perft(&pos, 3), total)
}
