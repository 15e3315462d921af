package engine

// IsSquareAttacked reports whether s is attacked by the color opposite to
// defender. Order matches spec.md §4.4: bishop rays, rook rays, knights,
// king, then pawns, short-circuiting on the first hit.
func (pos *Position) IsSquareAttacked(s Square, defender Color) bool {
	attacker := defender.Opposite()
	occ := pos.colorBB[0] | pos.colorBB[1]
	empty := ^occ
	sBB := bbFromSquare(s)

	enemyBishops := pos.pieceBB[makePiece(Bishop, attacker)] | pos.pieceBB[makePiece(Queen, attacker)]
	if bishopAttacks(sBB, empty)&enemyBishops != 0 {
		return true
	}
	enemyRooks := pos.pieceBB[makePiece(Rook, attacker)] | pos.pieceBB[makePiece(Queen, attacker)]
	if rookAttacks(sBB, empty)&enemyRooks != 0 {
		return true
	}
	if knightAttacks[s]&pos.pieceBB[makePiece(Knight, attacker)] != 0 {
		return true
	}
	if kingAttacks[s]&pos.pieceBB[makePiece(King, attacker)] != 0 {
		return true
	}
	if pawnAttacks(defender, sBB)&pos.pieceBB[makePiece(Pawn, attacker)] != 0 {
		return true
	}
	return false
}

// LegalMoves returns pseudo-legal moves filtered by a do/undo legality
// test: each candidate is played, the mover's king is checked for attack by
// the new side to move, and the move is undone. This is the source of
// truth for check detection on generated output (spec.md §4.4).
func (pos *Position) LegalMoves(onlyCaptures bool) []Move {
	pseudo := pos.pseudoLegalMoves(onlyCaptures)
	legal := make([]Move, 0, len(pseudo))
	mover := pos.sideToMove
	for _, m := range pseudo {
		pos.DoMove(m)
		kingBB := pos.pieceBB[makePiece(King, mover)]
		if kingBB == 0 || !pos.IsSquareAttacked(lsb(kingBB), mover) {
			legal = append(legal, m)
		}
		pos.UndoMove(m)
	}
	return legal
}

// pseudoLegalMoves generates moves in a stable order: all captures first
// (pawn, knight, bishop, rook/queen, king), then - unless onlyCaptures -
// all quiet moves in the same piece order, followed by castling. The
// ordering is deterministic given identical board state, enabling
// reproducible perft-style diagnostics.
func (pos *Position) pseudoLegalMoves(onlyCaptures bool) []Move {
	moves := make([]Move, 0, 48)

	c := pos.sideToMove
	enemy := c.Opposite()
	occ := pos.colorBB[0] | pos.colorBB[1]
	empty := ^occ
	enemyBB := pos.colorBB[colorIndex(enemy)]

	pawnsBB := pos.pieceBB[makePiece(Pawn, c)]
	knightsBB := pos.pieceBB[makePiece(Knight, c)]
	bishopsBB := pos.pieceBB[makePiece(Bishop, c)]
	rooksBB := pos.pieceBB[makePiece(Rook, c)]
	queensBB := pos.pieceBB[makePiece(Queen, c)]
	kingBB := pos.pieceBB[makePiece(King, c)]

	genPawnMoves(c, pawnsBB, enemyBB, true, pos.epSquare, &moves)
	genStepMoves(knightAttacks[:], knightsBB, enemyBB, &moves)
	genSliderMoves(bishopsBB, empty, enemyBB, bishopAttacks, &moves)
	genSliderMoves(rooksBB, empty, enemyBB, rookAttacks, &moves)
	genSliderMoves(queensBB, empty, enemyBB, queenAttacks, &moves)
	genStepMoves(kingAttacks[:], kingBB, enemyBB, &moves)

	if !onlyCaptures {
		genPawnMoves(c, pawnsBB, empty, false, pos.epSquare, &moves)
		genStepMoves(knightAttacks[:], knightsBB, empty, &moves)
		genSliderMoves(bishopsBB, empty, empty, bishopAttacks, &moves)
		genSliderMoves(rooksBB, empty, empty, rookAttacks, &moves)
		genSliderMoves(queensBB, empty, empty, queenAttacks, &moves)
		genStepMoves(kingAttacks[:], kingBB, empty, &moves)
		pos.genCastlingMoves(&moves)
	}

	return moves
}

// genStepMoves generates non-sliding moves (knight or king) from a table of
// precomputed attack sets, restricted to target.
func genStepMoves(attacks []Bitboard, pieces, target Bitboard, moves *[]Move) {
	for pieces != 0 {
		from := pop(&pieces)
		dests := attacks[from] & target
		for dests != 0 {
			to := pop(&dests)
			*moves = append(*moves, NewMove(from, to, FlagNormal))
		}
	}
}

// genSliderMoves generates bishop/rook/queen moves. empty is the full-board
// emptiness mask used to compute the ray (so attacks stop at the first
// piece of either color); target then restricts the result to either
// enemy occupancy (captures) or empty squares (quiets).
func genSliderMoves(pieces, empty, target Bitboard, attackFn func(Bitboard, Bitboard) Bitboard, moves *[]Move) {
	for pieces != 0 {
		from := pop(&pieces)
		dests := attackFn(bbFromSquare(from), empty) & target
		for dests != 0 {
			to := pop(&dests)
			*moves = append(*moves, NewMove(from, to, FlagNormal))
		}
	}
}

func makePromotions(from, to Square, moves *[]Move) {
	*moves = append(*moves, NewMove(from, to, FlagPromoKnight))
	*moves = append(*moves, NewMove(from, to, FlagPromoBishop))
	*moves = append(*moves, NewMove(from, to, FlagPromoRook))
	*moves = append(*moves, NewMove(from, to, FlagPromoQueen))
}

// genPawnMoves generates single/double pushes (isCaptureGen == false) or
// diagonal captures plus en passant (isCaptureGen == true), for one color.
// Promotions on the last rank expand to four flagged moves.
func genPawnMoves(c Color, pawnsBB, target Bitboard, isCaptureGen bool, epSq Square, moves *[]Move) {
	up := North
	promoRank := 7
	homeRank := 1
	diagA, diagB := NorthEast, NorthWest
	if c == Black {
		up = South
		promoRank = 0
		homeRank = 6
		diagA, diagB = SouthEast, SouthWest
	}

	for pawnsBB != 0 {
		from := pop(&pawnsBB)
		fromBB := bbFromSquare(from)

		if !isCaptureGen {
			push := shift(up, fromBB) & target
			if push != 0 {
				to := lsb(push)
				if to.Rank() == promoRank {
					makePromotions(from, to, moves)
				} else {
					*moves = append(*moves, NewMove(from, to, FlagNormal))
				}
				if from.Rank() == homeRank {
					push2 := shift(up, push) & target
					if push2 != 0 {
						*moves = append(*moves, NewMove(from, lsb(push2), FlagDoublePush))
					}
				}
			}
			continue
		}

		attacks := shift(diagA, fromBB) | shift(diagB, fromBB)
		for attacks != 0 {
			to := pop(&attacks)
			toBB := bbFromSquare(to)
			switch {
			case to == epSq:
				*moves = append(*moves, NewMove(from, to, FlagEnPassant))
			case toBB&target != 0:
				if to.Rank() == promoRank {
					makePromotions(from, to, moves)
				} else {
					*moves = append(*moves, NewMove(from, to, FlagNormal))
				}
			}
		}
	}
}

// genCastlingMoves emits castling moves for the side to move when the
// relevant right is held, the squares between king and rook are empty, and
// none of the king's start/transit/end squares are attacked.
func (pos *Position) genCastlingMoves(moves *[]Move) {
	c := pos.sideToMove
	occ := pos.colorBB[0] | pos.colorBB[1]

	king := e1
	kingside, queenside := WhiteKingside, WhiteQueenside
	if c == Black {
		king = e8
		kingside, queenside = BlackKingside, BlackQueenside
	}

	if pos.castlingRights&kingside != 0 {
		f, g := king+1, king+2
		if occ&(bbFromSquare(f)|bbFromSquare(g)) == 0 &&
			!pos.IsSquareAttacked(king, c) && !pos.IsSquareAttacked(f, c) && !pos.IsSquareAttacked(g, c) {
			*moves = append(*moves, NewMove(king, g, FlagCastleKS))
		}
	}
	if pos.castlingRights&queenside != 0 {
		d, cc, b := king-1, king-2, king-3
		if occ&(bbFromSquare(d)|bbFromSquare(cc)|bbFromSquare(b)) == 0 &&
			!pos.IsSquareAttacked(king, c) && !pos.IsSquareAttacked(d, c) && !pos.IsSquareAttacked(cc, c) {
			*moves = append(*moves, NewMove(king, cc, FlagCastleQS))
		}
	}
}

// MoveFromCoordinates parses a long-algebraic move string such as "e2e4" or
// "a7a8q" against the current position, resolving the correct flag (double
// push, castle, en passant, promotion, or plain normal move). Returns
// NoMove if the string can't be resolved to a pseudo-legal-looking move -
// matching spec.md §7, a malformed move string resolves to "no move".
func (pos *Position) MoveFromCoordinates(s string) Move {
	if len(s) < 4 {
		return NoMove
	}
	from := squareFromString(s[0:2])
	to := squareFromString(s[2:4])
	if from == NoSquare || to == NoSquare {
		return NoMove
	}

	movingPiece := pos.mailbox[from]
	if movingPiece == NoPiece {
		return NoMove
	}

	if len(s) == 5 {
		switch s[4] {
		case 'n':
			return NewMove(from, to, FlagPromoKnight)
		case 'b':
			return NewMove(from, to, FlagPromoBishop)
		case 'r':
			return NewMove(from, to, FlagPromoRook)
		case 'q':
			return NewMove(from, to, FlagPromoQueen)
		}
		return NoMove
	}

	if movingPiece.Type() == King {
		switch {
		case from == e1 && to == e1+2:
			return NewMove(from, to, FlagCastleKS)
		case from == e1 && to == e1-2:
			return NewMove(from, to, FlagCastleQS)
		case from == e8 && to == e8+2:
			return NewMove(from, to, FlagCastleKS)
		case from == e8 && to == e8-2:
			return NewMove(from, to, FlagCastleQS)
		}
	}

	if movingPiece.Type() == Pawn {
		if to == pos.epSquare {
			return NewMove(from, to, FlagEnPassant)
		}
		if abs(int(to)-int(from)) == 16 {
			return NewMove(from, to, FlagDoublePush)
		}
	}

	return NewMove(from, to, FlagNormal)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
