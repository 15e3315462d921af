package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalMovesStartingPositionCount(t *testing.T) {
	var pos Position
	pos.SetDefault()
	require.Len(t, pos.LegalMoves(false), 20)
}

func TestLegalMovesExcludeSelfCheck(t *testing.T) {
	// The e2 knight is absolutely pinned to the e1 king by the e8 rook:
	// every pseudo-legal knight move leaves the e-file and would expose the
	// king, so none of them should survive the do/undo legality filter.
	var pos Position
	pos.SetFEN("4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1")

	e2 := squareFromString("e2")
	for _, m := range pos.LegalMoves(false) {
		require.NotEqual(t, e2, m.From(), "pinned knight has no legal destination")
	}
}

func TestCastlingBlockedWhenKingInCheck(t *testing.T) {
	var pos Position
	// Black rook on h1 attacks along rank 1 up to the first piece it hits,
	// the white king on e1: the king is in check, so castling (its Q right
	// notwithstanding) must not appear among the legal moves at all.
	pos.SetFEN("4k3/8/8/8/8/8/8/R3K2r w Q - 0 1")
	require.True(t, pos.InCheck(White))

	for _, m := range pos.LegalMoves(false) {
		require.NotEqual(t, FlagCastleQS, m.Flag(), "castling must be illegal while the king is in check")
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	// Fool's mate final position.
	var pos Position
	pos.SetFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.True(t, pos.InCheck(White))
	require.Empty(t, pos.LegalMoves(false))
}

func TestStalemateHasNoLegalMoves(t *testing.T) {
	var pos Position
	pos.SetFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.False(t, pos.InCheck(Black))
	require.Empty(t, pos.LegalMoves(false))
}

func TestMoveFromCoordinatesPromotion(t *testing.T) {
	var pos Position
	pos.SetFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	m := pos.MoveFromCoordinates("a7a8q")
	require.Equal(t, FlagPromoQueen, m.Flag())
	require.True(t, m.IsPromotion())
	require.Equal(t, Queen, m.PromotionType())
}
