package game

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the side length of the board.
const Size = 15

// WinLength is the number of stones in a row that wins the game.
const WinLength = 5

// Cell is the content of one intersection.
type Cell int8

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

// Opponent returns the other player. Empty maps to Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

// Valid reports whether c is a player (1 or 2).
func (c Cell) Valid() bool {
	return c == PlayerOne || c == PlayerTwo
}

var (
	ErrBoardShape = errors.New("board must be 15x15")
	ErrCellValue  = errors.New("board cells must be 0, 1 or 2")
	ErrPlayer     = errors.New("player must be 1 or 2")
)

// Move is a placement at board[X][Y]. X is the row, Y the column.
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Center is the middle intersection, used as the opening and fallback move.
var Center = Move{X: Size / 2, Y: Size / 2}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.X, m.Y)
}

// Direction is a unit step along one of the four line axes.
type Direction struct {
	DX, DY int
}

// Directions lists the four axes a five can be made on:
// vertical, horizontal, diagonal and anti-diagonal.
var Directions = [4]Direction{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Board is a 15x15 grid indexed board[x][y].
type Board [Size][Size]Cell

// FromGrid builds a board from a caller supplied grid, validating its shape
// and cell values.
func FromGrid(grid [][]int) (*Board, error) {
	if len(grid) != Size {
		return nil, fmt.Errorf("%w: got %d rows", ErrBoardShape, len(grid))
	}
	b := &Board{}
	for x, row := range grid {
		if len(row) != Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrBoardShape, x, len(row))
		}
		for y, v := range row {
			if v < 0 || v > 2 {
				return nil, fmt.Errorf("%w: got %d at (%d,%d)", ErrCellValue, v, x, y)
			}
			b[x][y] = Cell(v)
		}
	}
	return b, nil
}

// ParsePlayer validates a player number.
func ParsePlayer(p int) (Cell, error) {
	c := Cell(p)
	if p < 0 || p > 2 || !c.Valid() {
		return Empty, fmt.Errorf("%w: got %d", ErrPlayer, p)
	}
	return c, nil
}

// Grid converts the board back to plain ints.
func (b *Board) Grid() [][]int {
	grid := make([][]int, Size)
	for x := 0; x < Size; x++ {
		grid[x] = make([]int, Size)
		for y := 0; y < Size; y++ {
			grid[x][y] = int(b[x][y])
		}
	}
	return grid
}

// InBounds reports whether (x, y) lies on the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// At returns the cell at (x, y); off-board cells read as Empty.
func (b *Board) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Empty
	}
	return b[x][y]
}

// IsEmpty reports whether (x, y) is on the board and unoccupied.
func (b *Board) IsEmpty(x, y int) bool {
	return InBounds(x, y) && b[x][y] == Empty
}

// Place puts player's stone on (x, y). The caller guarantees the cell is empty.
func (b *Board) Place(x, y int, player Cell) {
	b[x][y] = player
}

// Remove clears (x, y).
func (b *Board) Remove(x, y int) {
	b[x][y] = Empty
}

// Stones counts occupied cells.
func (b *Board) Stones() int {
	n := 0
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b[x][y] != Empty {
				n++
			}
		}
	}
	return n
}

// IsFull reports whether no empty cell is left.
func (b *Board) IsFull() bool {
	return b.Stones() == Size*Size
}

// String renders the board with '.', 'X' (player one) and 'O' (player two),
// one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			switch b[x][y] {
			case PlayerOne:
				sb.WriteByte('X')
			case PlayerTwo:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard reads the String format back. Rows may be shorter than Size;
// missing cells are empty. Used by tests and tools to describe positions.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) > Size {
		return nil, fmt.Errorf("%w: got %d rows", ErrBoardShape, len(rows))
	}
	b := &Board{}
	for x, row := range rows {
		if len(row) > Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrBoardShape, x, len(row))
		}
		for y, ch := range row {
			switch ch {
			case 'X', 'x', '1':
				b[x][y] = PlayerOne
			case 'O', 'o', '2':
				b[x][y] = PlayerTwo
			case '.', '0', ' ':
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrCellValue, ch, x, y)
			}
		}
	}
	return b, nil
}
