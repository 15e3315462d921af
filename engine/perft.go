package engine

// Perft counts leaf nodes reached by playing every legal move to depth
// plies, recursively. No transposition table is used - perft here is a
// move-generator correctness check, not a search, and caching would hide
// generator bugs that only manifest on specific paths (spec.md's Non-goals
// exclude a transposition table from this engine entirely).
func Perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.LegalMoves(false)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		pos.DoMove(m)
		nodes += Perft(pos, depth-1)
		pos.UndoMove(m)
	}
	return nodes
}

// DivideEntry is one root move's subtree count, as reported by DividePerft.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// DividePerft breaks the depth-ply node count down per root move, the
// standard way of bisecting a move generator discrepancy against a known-
// good reference (spec.md §6, "perft N" / "divide").
func DividePerft(pos *Position, depth int) ([]DivideEntry, uint64) {
	if depth <= 0 {
		return nil, 1
	}
	moves := pos.LegalMoves(false)
	entries := make([]DivideEntry, 0, len(moves))
	var total uint64
	for _, m := range moves {
		pos.DoMove(m)
		n := Perft(pos, depth-1)
		pos.UndoMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: n})
		total += n
	}
	return entries, total
}
