package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// backRankMateFEN is a textbook back-rank mate: the black king on g8 is
// boxed in by its own f7/g7/h7 pawns, and Ra1-a8 delivers checkmate along
// the open back rank with no blocking piece or king escape available.
const backRankMateFEN = "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"

func TestSearchFindsMateInOne(t *testing.T) {
	var pos Position
	pos.SetFEN(backRankMateFEN)

	s := Searcher{Pos: &pos}
	best := s.Search(SearchParams{Depth: 3}, nil)
	require.Equal(t, "a1a8", best.String())
}

func TestSearchReportsMateScore(t *testing.T) {
	var pos Position
	pos.SetFEN(backRankMateFEN)

	s := Searcher{Pos: &pos}
	var last Info
	s.Search(SearchParams{Depth: 3}, func(info Info) { last = info })
	require.True(t, last.IsMate)
	require.Equal(t, 1, last.MateIn)
}

func TestMateScoreIsMonotonicInPly(t *testing.T) {
	// A mate found sooner (smaller ply from root) must score more extreme
	// (further from zero) than one found deeper, so the search always
	// prefers the fastest available mate.
	require.Less(t, mateScore(0), mateScore(2))
	require.Less(t, mateScore(1), mateScore(5))
}

func TestIsMateScore(t *testing.T) {
	require.True(t, IsMateScore(mateScore(0)))
	require.True(t, IsMateScore(-mateScore(0)))
	require.False(t, IsMateScore(150))
	require.False(t, IsMateScore(-150))
}

func TestAllocateTimeUsesMoveTimeOverride(t *testing.T) {
	d := allocateTime(White, SearchParams{MoveTime: 500, WTime: 60000})
	require.Equal(t, int64(500), d.Milliseconds())
}

func TestAllocateTimeFallsBackToDefaultMovesToGo(t *testing.T) {
	d := allocateTime(White, SearchParams{WTime: defaultMovesToGo * 1000})
	require.Equal(t, int64(1000), d.Milliseconds())
}

func TestSearchScenarioFMateBand(t *testing.T) {
	// Exercises the exact position a depth-3 search is expected to resolve
	// to a mate-band score: Re1-e8 is back-rank mate.
	var pos Position
	pos.SetFEN("6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1")

	s := Searcher{Pos: &pos}
	var last Info
	best := s.Search(SearchParams{Depth: 3}, func(info Info) { last = info })

	require.Equal(t, "e1e8", best.String())
	require.True(t, last.IsMate)
	require.Equal(t, 1, last.MateIn)
}
