package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// String renders an ASCII board diagram followed by side to move, castling
// rights, en-passant square, clocks, FEN, Zobrist hash, and repetition
// status - the information the "d" protocol command reports (spec.md §6).
func (pos *Position) String() string {
	var b strings.Builder
	b.WriteByte('\n')

	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&b, "%d | ", rank+1)
		for file := 0; file < 8; file++ {
			p := pos.mailbox[squareFromFileRank(file, rank)]
			ch := rune('.')
			if p != NoPiece {
				letter := pieceLetters[p.Type()]
				ch = rune(letter[0])
				if p.Color() == White {
					ch = unicode.ToUpper(ch)
				}
			}
			fmt.Fprintf(&b, "%c ", ch)
		}
		b.WriteByte('\n')
	}

	b.WriteString("   ")
	b.WriteString(strings.Repeat("--", 8))
	b.WriteString("\n    ")
	for _, file := range "abcdefgh" {
		fmt.Fprintf(&b, "%c ", file)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Side to move: %s\n", pos.sideToMove)

	b.WriteString("Castling rights: ")
	if pos.castlingRights&WhiteKingside != 0 {
		b.WriteByte('K')
	}
	if pos.castlingRights&WhiteQueenside != 0 {
		b.WriteByte('Q')
	}
	if pos.castlingRights&BlackKingside != 0 {
		b.WriteByte('k')
	}
	if pos.castlingRights&BlackQueenside != 0 {
		b.WriteByte('q')
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "En passant square: %s\n", pos.epSquare)
	fmt.Fprintf(&b, "Halfmove clock: %d\n", pos.halfmoveClock)
	fmt.Fprintf(&b, "Fullmove counter: %d\n", pos.fullmoveCounter)
	fmt.Fprintf(&b, "FEN: %s\n", pos.FEN())
	fmt.Fprintf(&b, "Zobrist hash: 0x%x\n", pos.hash)
	fmt.Fprintf(&b, "Repetition (3x): %v\n", pos.Is3xRepeat())

	return b.String()
}
