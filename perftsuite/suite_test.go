package perftsuite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSuite = `rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1;D1 20;D2 400
# a comment line, ignored
r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1;D1 48

not a valid line with no semicolon is kept only as a bare FEN
`

func TestLoadParsesDepthFields(t *testing.T) {
	cases := Load(strings.NewReader(sampleSuite))
	require.Len(t, cases, 3)

	require.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", cases[0].FEN)
	require.Equal(t, []uint64{20, 400}, cases[0].Depths)

	require.Equal(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", cases[1].FEN)
	require.Equal(t, []uint64{48}, cases[1].Depths)

	require.Nil(t, cases[2].Depths)
}

func TestRunMatchesKnownGoodCounts(t *testing.T) {
	cases := Load(strings.NewReader(
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1;D1 20;D2 400\n"))

	results := Run(cases)
	require.Len(t, results, 2)
	for _, r := range results {
		require.True(t, r.Passed(), "depth %d: want %d got %d", r.Depth, r.Want, r.Got)
	}
}

func TestLoadSkipsMalformedDepthField(t *testing.T) {
	cases := Load(strings.NewReader("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1;Dx bogus\n"))
	require.Empty(t, cases)
}
