package game

// scanLimit is how many cells past the origin a line scan looks each way.
const scanLimit = 4

// Pattern describes the line through one cell in one direction.
type Pattern struct {
	Count    int // contiguous stones including the origin, capped at WinLength
	OpenEnds int // ends of the run that finish on an empty cell
}

// AnalyzePattern measures the run of player's stones through (x, y) along d.
// The origin counts as player's stone whatever it currently holds, so the
// same call answers both "what do I make here" and "what would I take away
// from the opponent here".
func AnalyzePattern(b *Board, x, y int, d Direction, player Cell) Pattern {
	p := Pattern{Count: 1}
	for _, sign := range [2]int{1, -1} {
		for i := 1; i <= scanLimit; i++ {
			nx, ny := x+sign*i*d.DX, y+sign*i*d.DY
			if !InBounds(nx, ny) {
				break
			}
			c := b[nx][ny]
			if c == player {
				p.Count++
				continue
			}
			if c == Empty {
				p.OpenEnds++
			}
			break
		}
	}
	if p.Count > WinLength {
		p.Count = WinLength
	}
	return p
}

// IsWinningMove reports whether player owning (x, y) makes five in a row.
func IsWinningMove(b *Board, x, y int, player Cell) bool {
	for _, d := range Directions {
		if AnalyzePattern(b, x, y, d, player).Count >= WinLength {
			return true
		}
	}
	return false
}

// HasFive scans the whole board for a five of player's stones.
func HasFive(b *Board, player Cell) bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b[x][y] == player && IsWinningMove(b, x, y, player) {
				return true
			}
		}
	}
	return false
}

// Winner returns the player with five in a row, or Empty.
func Winner(b *Board) Cell {
	if HasFive(b, PlayerOne) {
		return PlayerOne
	}
	if HasFive(b, PlayerTwo) {
		return PlayerTwo
	}
	return Empty
}
