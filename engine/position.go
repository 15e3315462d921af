package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPlies bounds the Undo stack. Kept as a contiguous, fixed-size array
// rather than a growable slice - pre-allocation matters in the search's
// inner do/undo loop, and exceeding it is a programming error, not a
// recoverable condition.
const MaxPlies = 512

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// KiwipeteFEN is a well-known stress position for move generators.
const KiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// castling-relevant squares
const (
	a1 Square = 0
	e1 Square = 4
	h1 Square = 7
	a8 Square = 56
	e8 Square = 60
	h8 Square = 63
)

// undoRecord holds the state needed to reconstruct a Position's invariants
// after UndoMove, and to answer queries about a given ply (e.g. Is3xRepeat).
type undoRecord struct {
	epSquare       Square
	castlingRights CastlingRights
	capturedPiece  Piece
	halfmoveClock  int
	hash           uint64
}

// Position is the mutable board state: mailbox + per-piece bitboards + per-
// color occupancy, side to move, move counters, and a fixed Undo stack.
// It's mutated exclusively through DoMove/UndoMove (SetDefault/SetFEN are
// reset operations); the search borrows it by reference and must leave it
// exactly as it found it on every return path.
type Position struct {
	mailbox [64]Piece
	pieceBB [16]Bitboard
	colorBB [2]Bitboard

	sideToMove      Color
	epSquare        Square
	castlingRights  CastlingRights
	halfmoveClock   int
	fullmoveCounter int
	material        [2]int
	hash            uint64

	ply  int
	undo [MaxPlies]undoRecord
}

func colorIndex(c Color) int { return int(c >> 3) }

// SetDefault installs the standard starting array.
func (pos *Position) SetDefault() {
	pos.SetFEN(StartFEN)
}

// reset clears all position state to empty.
func (pos *Position) reset() {
	pos.mailbox = [64]Piece{}
	for i := range pos.mailbox {
		pos.mailbox[i] = NoPiece
	}
	pos.pieceBB = [16]Bitboard{}
	pos.colorBB = [2]Bitboard{}
	pos.sideToMove = White
	pos.epSquare = NoSquare
	pos.castlingRights = 0
	pos.halfmoveClock = 0
	pos.fullmoveCounter = 1
	pos.material = [2]int{}
	pos.hash = 0
	pos.ply = 0
	pos.undo = [MaxPlies]undoRecord{}
}

// SetFEN parses FEN fields in order, tolerant of extra whitespace and
// missing trailing fields (they default to zero/"-"). Malformed input is
// handled best-effort: the protocol this engine serves is forgiving by
// design (§7 - parse errors never panic or abort the dispatcher loop).
func (pos *Position) SetFEN(fen string) {
	pos.reset()

	fields := strings.Fields(fen)
	if len(fields) == 0 {
		pos.hash = hashFromScratch(pos)
		pos.undo[0] = undoRecord{epSquare: NoSquare, hash: pos.hash}
		return
	}

	placement := fields[0]
	rank, file := 7, 0
	for _, r := range placement {
		switch {
		case r == '/':
			rank--
			file = 0
		case r >= '1' && r <= '8':
			file += int(r - '0')
		default:
			pt, c := pieceFromFENChar(byte(r))
			if pt != NoPieceType && rank >= 0 && rank < 8 && file >= 0 && file < 8 {
				sq := squareFromFileRank(file, rank)
				pos.putPiece(pt, c, sq)
			}
			file++
		}
	}

	pos.sideToMove = White
	if len(fields) > 1 && fields[1] == "b" {
		pos.sideToMove = Black
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, r := range fields[2] {
			switch r {
			case 'K':
				pos.castlingRights |= WhiteKingside
			case 'Q':
				pos.castlingRights |= WhiteQueenside
			case 'k':
				pos.castlingRights |= BlackKingside
			case 'q':
				pos.castlingRights |= BlackQueenside
			}
		}
	}

	pos.epSquare = NoSquare
	if len(fields) > 3 && fields[3] != "-" {
		pos.epSquare = squareFromString(fields[3])
	}

	pos.halfmoveClock = 0
	if len(fields) > 4 {
		if v, err := strconv.Atoi(fields[4]); err == nil {
			pos.halfmoveClock = v
		}
	}

	pos.fullmoveCounter = 1
	if len(fields) > 5 {
		if v, err := strconv.Atoi(fields[5]); err == nil && v > 0 {
			pos.fullmoveCounter = v
		}
	}

	pos.hash = hashFromScratch(pos)
	pos.ply = 0
	pos.undo[0] = undoRecord{
		epSquare:       pos.epSquare,
		castlingRights: pos.castlingRights,
		capturedPiece:  NoPiece,
		halfmoveClock:  pos.halfmoveClock,
		hash:           pos.hash,
	}
}

var fenPieceTypes = map[byte]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

func pieceFromFENChar(ch byte) (PieceType, Color) {
	lower := ch
	color := Black
	if ch >= 'A' && ch <= 'Z' {
		lower = ch - 'A' + 'a'
		color = White
	}
	return fenPieceTypes[lower], color
}

// FEN produces the canonical FEN for the current state: empty-run
// compression, side to move, castling rights in KQkq order, en-passant
// square or "-", halfmove clock, fullmove counter.
func (pos *Position) FEN() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empties := 0
		for file := 0; file < 8; file++ {
			p := pos.mailbox[squareFromFileRank(file, rank)]
			if p == NoPiece {
				empties++
				continue
			}
			if empties > 0 {
				b.WriteByte(byte('0' + empties))
				empties = 0
			}
			b.WriteByte(p.FENChar())
		}
		if empties > 0 {
			b.WriteByte(byte('0' + empties))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	b.WriteByte(' ')
	if pos.sideToMove == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}

	b.WriteByte(' ')
	rights := ""
	if pos.castlingRights&WhiteKingside != 0 {
		rights += "K"
	}
	if pos.castlingRights&WhiteQueenside != 0 {
		rights += "Q"
	}
	if pos.castlingRights&BlackKingside != 0 {
		rights += "k"
	}
	if pos.castlingRights&BlackQueenside != 0 {
		rights += "q"
	}
	if rights == "" {
		rights = "-"
	}
	b.WriteString(rights)

	b.WriteByte(' ')
	if pos.epSquare == NoSquare {
		b.WriteByte('-')
	} else {
		b.WriteString(pos.epSquare.String())
	}

	fmt.Fprintf(&b, " %d %d", pos.halfmoveClock, pos.fullmoveCounter)
	return b.String()
}

func pawnUp(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// movePiece relocates the piece on from to to. The move is guaranteed
// quiet by the caller - the destination square must already be empty.
func (pos *Position) movePiece(from, to Square) {
	p := pos.mailbox[from]
	fromBB, toBB := bbFromSquare(from), bbFromSquare(to)
	ci := colorIndex(p.Color())

	pos.pieceBB[p] &^= fromBB
	pos.colorBB[ci] &^= fromBB
	pos.hash ^= pieceHash(p, from)
	pos.mailbox[from] = NoPiece

	pos.pieceBB[p] |= toBB
	pos.colorBB[ci] |= toBB
	pos.hash ^= pieceHash(p, to)
	pos.mailbox[to] = p
}

// putPiece places a new piece of type pt and color c on sq.
func (pos *Position) putPiece(pt PieceType, c Color, sq Square) {
	p := makePiece(pt, c)
	bb := bbFromSquare(sq)
	ci := colorIndex(c)

	pos.pieceBB[p] |= bb
	pos.colorBB[ci] |= bb
	pos.mailbox[sq] = p
	pos.hash ^= pieceHash(p, sq)
	pos.material[ci] += pieceValue(pt)
}

// removePiece removes whatever piece sits on sq.
func (pos *Position) removePiece(sq Square) {
	p := pos.mailbox[sq]
	bb := bbFromSquare(sq)
	ci := colorIndex(p.Color())

	pos.pieceBB[p] &^= bb
	pos.colorBB[ci] &^= bb
	pos.hash ^= pieceHash(p, sq)
	pos.mailbox[sq] = NoPiece
	pos.material[ci] -= pieceValue(p.Type())
}

// DoMove applies m to the position, pushing an Undo record so UndoMove can
// reverse it exactly. See spec.md §4.5 for the field-by-field derivation
// this mirrors.
func (pos *Position) DoMove(m Move) {
	from, to, flag := m.From(), m.To(), m.Flag()
	mover := pos.sideToMove

	rec := undoRecord{
		epSquare:       pos.epSquare,
		castlingRights: pos.castlingRights,
		capturedPiece:  NoPiece,
		halfmoveClock:  pos.halfmoveClock,
	}

	if pos.epSquare != NoSquare {
		pos.hash ^= epFileHash(pos.epSquare)
	}
	pos.epSquare = NoSquare
	pos.halfmoveClock++

	switch flag {
	case FlagDoublePush:
		pos.movePiece(from, to)
		pos.halfmoveClock = 0
		mid := Square((int(from) + int(to)) / 2)
		pos.epSquare = mid
		pos.hash ^= epFileHash(mid)

	case FlagCastleKS:
		pos.movePiece(from, to)
		pos.movePiece(from+3, from+1)

	case FlagCastleQS:
		pos.movePiece(from, to)
		pos.movePiece(from-4, from-1)

	case FlagEnPassant:
		capSq := to - Square(pawnUp(mover))
		rec.capturedPiece = pos.mailbox[capSq]
		pos.removePiece(capSq)
		pos.halfmoveClock = 0
		pos.movePiece(from, to)

	case FlagPromoKnight, FlagPromoBishop, FlagPromoRook, FlagPromoQueen:
		rec.capturedPiece = pos.mailbox[to]
		if rec.capturedPiece != NoPiece {
			pos.removePiece(to)
		}
		pos.removePiece(from)
		pos.halfmoveClock = 0
		pos.putPiece(m.PromotionType(), mover, to)

	default: // FlagNormal: quiet move or plain capture
		movingType := pos.mailbox[from].Type()
		rec.capturedPiece = pos.mailbox[to]
		if movingType == Pawn || rec.capturedPiece != NoPiece {
			pos.halfmoveClock = 0
		}
		if rec.capturedPiece != NoPiece {
			pos.removePiece(to)
		}
		pos.movePiece(from, to)
	}

	oldRights := pos.castlingRights
	if from == a1 || to == a1 {
		pos.castlingRights &^= WhiteQueenside
	}
	if from == h1 || to == h1 {
		pos.castlingRights &^= WhiteKingside
	}
	if from == e1 {
		pos.castlingRights &^= WhiteKingside | WhiteQueenside
	}
	if from == a8 || to == a8 {
		pos.castlingRights &^= BlackQueenside
	}
	if from == h8 || to == h8 {
		pos.castlingRights &^= BlackKingside
	}
	if from == e8 {
		pos.castlingRights &^= BlackKingside | BlackQueenside
	}
	if pos.castlingRights != oldRights {
		pos.hash ^= castlingHash(oldRights)
		pos.hash ^= castlingHash(pos.castlingRights)
	}

	pos.sideToMove = mover.Opposite()
	pos.hash ^= sideToMoveHash()

	if mover == Black {
		pos.fullmoveCounter++
	}

	rec.hash = pos.hash
	pos.ply++
	if pos.ply >= MaxPlies {
		panic("corvid: ply stack overflow")
	}
	pos.undo[pos.ply] = rec
}

// UndoMove reverses m, restoring the Position to the state it was in before
// the corresponding DoMove. The previous Undo record already holds the
// correct hash, so no hash recomputation is needed - it's simply restored.
func (pos *Position) UndoMove(m Move) {
	if pos.ply <= 0 {
		panic("corvid: undo below root")
	}
	rec := pos.undo[pos.ply]
	pos.ply--
	prevHash := pos.undo[pos.ply].hash

	from, to, flag := m.From(), m.To(), m.Flag()
	mover := pos.sideToMove.Opposite()
	pos.sideToMove = mover

	switch flag {
	case FlagCastleKS:
		pos.movePiece(to, from)
		pos.movePiece(from+1, from+3)

	case FlagCastleQS:
		pos.movePiece(to, from)
		pos.movePiece(from-1, from-4)

	case FlagPromoKnight, FlagPromoBishop, FlagPromoRook, FlagPromoQueen:
		pos.removePiece(to)
		if rec.capturedPiece != NoPiece {
			pos.putPiece(rec.capturedPiece.Type(), rec.capturedPiece.Color(), to)
		}
		pos.putPiece(Pawn, mover, from)

	case FlagEnPassant:
		pos.movePiece(to, from)
		capSq := to - Square(pawnUp(mover))
		pos.putPiece(rec.capturedPiece.Type(), rec.capturedPiece.Color(), capSq)

	default: // FlagNormal or FlagDoublePush
		pos.movePiece(to, from)
		if rec.capturedPiece != NoPiece {
			pos.putPiece(rec.capturedPiece.Type(), rec.capturedPiece.Color(), to)
		}
	}

	pos.epSquare = rec.epSquare
	pos.castlingRights = rec.castlingRights
	pos.halfmoveClock = rec.halfmoveClock
	pos.hash = prevHash

	if mover == Black {
		pos.fullmoveCounter--
	}
}

// InCheck reports whether the king of color is currently attacked by the
// opposite color. (Resolves spec.md's Q2: the color argument names the
// king, the opposite color is always the attacker, regardless of whose
// turn it actually is.)
func (pos *Position) InCheck(color Color) bool {
	kingBB := pos.pieceBB[makePiece(King, color)]
	if kingBB == 0 {
		return false
	}
	return pos.IsSquareAttacked(lsb(kingBB), color)
}

// Is3xRepeat scans the Undo stack for the current position's hash
// appearing three or more times.
func (pos *Position) Is3xRepeat() bool {
	count := 0
	target := pos.hash
	for i := 0; i <= pos.ply; i++ {
		if pos.undo[i].hash == target {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// SideToMove reports whose turn it is.
func (pos *Position) SideToMove() Color { return pos.sideToMove }

// Hash returns the current Zobrist hash.
func (pos *Position) Hash() uint64 { return pos.hash }

// Ply returns the number of half-moves made since the position was set.
func (pos *Position) Ply() int { return pos.ply }

// Material returns the material score for the given color.
func (pos *Position) Material(c Color) int { return pos.material[colorIndex(c)] }

// PieceAt returns the piece occupying sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece { return pos.mailbox[sq] }

// CastlingRights returns the current castling rights mask.
func (pos *Position) CastlingRights() CastlingRights { return pos.castlingRights }

// EPSquare returns the current en-passant target square, or NoSquare.
func (pos *Position) EPSquare() Square { return pos.epSquare }
