package game

import (
	"errors"
	"testing"
)

func emptyGrid() [][]int {
	grid := make([][]int, Size)
	for i := range grid {
		grid[i] = make([]int, Size)
	}
	return grid
}

func TestFromGrid(t *testing.T) {
	grid := emptyGrid()
	grid[3][4] = 1
	grid[14][0] = 2

	b, err := FromGrid(grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b[3][4] != PlayerOne || b[14][0] != PlayerTwo {
		t.Fatalf("cells not copied: %v %v", b[3][4], b[14][0])
	}
	if b.Stones() != 2 {
		t.Fatalf("expected 2 stones, got %d", b.Stones())
	}

	back := b.Grid()
	if back[3][4] != 1 || back[14][0] != 2 || back[0][0] != 0 {
		t.Fatalf("grid round trip lost cells")
	}
}

func TestFromGridRejectsBadInput(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		if _, err := FromGrid(emptyGrid()[:14]); !errors.Is(err, ErrBoardShape) {
			t.Fatalf("expected ErrBoardShape, got %v", err)
		}
	})
	t.Run("columns", func(t *testing.T) {
		grid := emptyGrid()
		grid[7] = grid[7][:10]
		if _, err := FromGrid(grid); !errors.Is(err, ErrBoardShape) {
			t.Fatalf("expected ErrBoardShape, got %v", err)
		}
	})
	t.Run("value", func(t *testing.T) {
		grid := emptyGrid()
		grid[2][2] = 3
		if _, err := FromGrid(grid); !errors.Is(err, ErrCellValue) {
			t.Fatalf("expected ErrCellValue, got %v", err)
		}
	})
}

func TestParsePlayer(t *testing.T) {
	for _, p := range []int{1, 2} {
		if _, err := ParsePlayer(p); err != nil {
			t.Fatalf("player %d rejected: %v", p, err)
		}
	}
	for _, p := range []int{-1, 0, 3, 257} {
		if _, err := ParsePlayer(p); !errors.Is(err, ErrPlayer) {
			t.Fatalf("player %d accepted", p)
		}
	}
}

func TestParseBoardMatchesString(t *testing.T) {
	b, err := ParseBoard(
		"X..",
		".O.",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b[0][0] != PlayerOne || b[1][1] != PlayerTwo || b.Stones() != 2 {
		t.Fatalf("unexpected board:\n%s", b)
	}

	again, err := ParseBoard(splitRows(b.String())...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *again != *b {
		t.Fatalf("String/ParseBoard mismatch")
	}
}

func TestOpponent(t *testing.T) {
	if PlayerOne.Opponent() != PlayerTwo || PlayerTwo.Opponent() != PlayerOne {
		t.Fatalf("opponent mapping broken")
	}
	if Empty.Opponent() != Empty {
		t.Fatalf("empty has no opponent")
	}
}

func splitRows(s string) []string {
	var rows []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			rows = append(rows, s[start:i])
			start = i + 1
		}
	}
	return rows
}
