package agent

import (
	"testing"

	"caro-game/internal/game"
)

func mustBoard(t *testing.T, rows ...string) *game.Board {
	t.Helper()
	b, err := game.ParseBoard(rows...)
	if err != nil {
		t.Fatalf("bad board: %v", err)
	}
	return b
}

// midgame gives player one an open diagonal three; nobody has a four.
func midgame(t *testing.T) *game.Board {
	return mustBoard(t,
		"",
		"",
		"",
		"",
		"",
		".....XO",
		"......XO",
		".....OXX",
		"......O",
	)
}

// quiet has only twos on the board, so every tier reaches its search stage.
func quiet(t *testing.T) *game.Board {
	return mustBoard(t,
		"",
		"",
		"",
		"",
		"....X.O",
		".....O.X",
		"....X.O",
		".....O.X",
		"....X.O",
	)
}

func testOptions() Options {
	return Options{MaxDepth: 4, NodeBudget: 20000, Refine: true}
}

func TestOpeningMoves(t *testing.T) {
	for _, player := range []game.Cell{game.PlayerOne, game.PlayerTwo} {
		for _, level := range Difficulties {
			d := New(testOptions()).Decide(&game.Board{}, player, level)
			if abs(d.Move.X-game.Center.X) > 3 || abs(d.Move.Y-game.Center.Y) > 3 {
				t.Fatalf("%s: expected a move in the central 7x7 area, got %v", level, d.Move)
			}
			// Hard opens wherever its search prefers; the others take the center.
			if level != Hard && d.Move != game.Center {
				t.Fatalf("%s: expected center, got %v (stage %s)", level, d.Move, d.Stage)
			}
		}
	}
}

func TestEveryTierBlocksFour(t *testing.T) {
	t.Run("open four", func(t *testing.T) {
		for _, level := range Difficulties {
			b := mustBoard(t, "X", "", "", "", "", "", "", ".......OOOO", "", "", "", "", "", "", "X.............X")
			m := New(testOptions()).ChooseMove(b, game.PlayerOne, level)
			if m != (game.Move{X: 7, Y: 6}) && m != (game.Move{X: 7, Y: 11}) {
				t.Fatalf("%s: expected (7,6) or (7,11), got %v", level, m)
			}
		}
	})
	t.Run("closed four", func(t *testing.T) {
		for _, level := range Difficulties {
			b := mustBoard(t, "X", "", "", "", "", "", "", "......XOOOO", "", "", "", "", "", "", "..............X")
			m := New(testOptions()).ChooseMove(b, game.PlayerOne, level)
			if m != (game.Move{X: 7, Y: 11}) {
				t.Fatalf("%s: expected (7,11), got %v", level, m)
			}
		}
	})
}

func TestEasyBlocksOpenThree(t *testing.T) {
	b := mustBoard(t, "", "", "", "", "....OOO", "", "", "", "", "", "X.X")
	m := New(DefaultOptions()).ChooseMove(b, game.PlayerOne, Easy)
	if m != (game.Move{X: 4, Y: 3}) && m != (game.Move{X: 4, Y: 7}) {
		t.Fatalf("expected a cell closing the three, got %v", m)
	}
}

func TestEveryTierTakesTheWin(t *testing.T) {
	for _, level := range Difficulties {
		// Player two threatens too; taking the five comes first.
		b := mustBoard(t, "", "", "XXXX", "", "", "OOOO")
		d := New(testOptions()).Decide(b, game.PlayerOne, level)
		if d.Move != (game.Move{X: 2, Y: 4}) {
			t.Fatalf("%s: expected (2,4), got %v (stage %s)", level, d.Move, d.Stage)
		}
	}
}

func TestBoardIsRestored(t *testing.T) {
	for _, position := range []func(*testing.T) *game.Board{midgame, quiet} {
		for _, level := range Difficulties {
			b := position(t)
			before := *b
			New(testOptions()).ChooseMove(b, game.PlayerOne, level)
			if *b != before {
				t.Fatalf("%s: board changed:\n%s", level, b)
			}
		}
	}
}

func TestMovesAreDeterministic(t *testing.T) {
	for _, position := range []func(*testing.T) *game.Board{midgame, quiet} {
		for _, level := range Difficulties {
			shared := New(testOptions())
			first := shared.ChooseMove(position(t), game.PlayerTwo, level)
			again := shared.ChooseMove(position(t), game.PlayerTwo, level)
			fresh := New(testOptions()).ChooseMove(position(t), game.PlayerTwo, level)
			if first != again || first != fresh {
				t.Fatalf("%s: moves differ: %v %v %v", level, first, again, fresh)
			}
		}
	}
}

func TestMovesAreLegal(t *testing.T) {
	for _, level := range Difficulties {
		b := quiet(t)
		m := New(testOptions()).ChooseMove(b, game.PlayerOne, level)
		if !b.IsEmpty(m.X, m.Y) {
			t.Fatalf("%s: %v is not an empty cell", level, m)
		}
	}
}

func TestFullBoardFallsBackToCenter(t *testing.T) {
	b := &game.Board{}
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			b[x][y] = game.Cell((x+y)%2 + 1)
		}
	}
	for _, level := range Difficulties {
		d := New(testOptions()).Decide(b, game.PlayerOne, level)
		if d.Move != game.Center || d.Stage != StageFallback {
			t.Fatalf("%s: expected center fallback, got %v (stage %s)", level, d.Move, d.Stage)
		}
	}
}

func TestUltimateStartsUnstoppableMate(t *testing.T) {
	// An open three: extending it to an open four wins on the next move.
	b := mustBoard(t, "", "", "", "", "", "", "", ".....XXX", ".....OO", "", "", "", "", "", "..............O")
	d := New(testOptions()).Decide(b, game.PlayerOne, Ultimate)
	if d.Move != (game.Move{X: 7, Y: 4}) && d.Move != (game.Move{X: 7, Y: 8}) {
		t.Fatalf("expected (7,4) or (7,8), got %v (stage %s)", d.Move, d.Stage)
	}
	if d.Stage != StageForcedWin {
		t.Fatalf("expected forced win stage, got %s", d.Stage)
	}
}

func TestNodeBudgetBoundsSearch(t *testing.T) {
	e := New(Options{NodeBudget: 300})
	d := e.Decide(quiet(t), game.PlayerOne, Ultimate)
	if d.Stage != StageSearch {
		t.Fatalf("expected the search stage, got %s", d.Stage)
	}
	if e.nodes > 301 {
		t.Fatalf("expected at most 301 search nodes, got %d", e.nodes)
	}
}

func TestInvalidPlayerFallsBack(t *testing.T) {
	d := New(DefaultOptions()).Decide(midgame(t), game.Empty, Hard)
	if d.Stage != StageFallback {
		t.Fatalf("expected fallback, got %s", d.Stage)
	}
}
