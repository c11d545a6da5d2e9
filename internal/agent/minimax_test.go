package agent

import (
	"testing"

	"caro-game/internal/game"
)

func TestHardSearchStopsOpenThree(t *testing.T) {
	// No four to block, so the search itself has to see the open four coming.
	b := mustBoard(t, "", "", "", "", "....OOO", "", "", "", "", "", "..........X", "............X")
	d := New(DefaultOptions()).Decide(b, game.PlayerOne, Hard)
	if d.Stage != StageSearch {
		t.Fatalf("expected the search stage, got %s", d.Stage)
	}
	if d.Move != (game.Move{X: 4, Y: 3}) && d.Move != (game.Move{X: 4, Y: 7}) {
		t.Fatalf("expected (4,3) or (4,7), got %v (score %d)", d.Move, d.Score)
	}
}

func TestNegamaxSeesTheLastMoveWin(t *testing.T) {
	e := New(DefaultOptions())
	b := mustBoard(t, "", "", "", "", "", "", "", "....XXXX", "O.O")
	s := &searcher{e: e, pos: newPosition(b, e.keys), eval: evaluateWeighted, width: ultimateWidth}

	// Player one just completed five at (7,8): player two, to move, has lost.
	s.pos.place(game.Move{X: 7, Y: 8}, game.PlayerOne)
	lost := s.negamax(2, 1, -infinity, infinity, game.PlayerTwo, game.Move{X: 7, Y: 8})
	s.pos.undo(game.Move{X: 7, Y: 8}, game.PlayerOne)
	if lost != -(scoreWin + 2) {
		t.Fatalf("expected %d, got %d", -(scoreWin + 2), lost)
	}
}

func TestDeepenReportsDepth(t *testing.T) {
	e := New(Options{MaxDepth: 3})
	b := mustBoard(t, "", "", "", "", "....X.O", ".....O.X", "....X.O", ".....O.X", "....X.O")
	roots := ultimateCandidates(b, game.PlayerOne, 6)
	results, depth := e.deepen(b, game.PlayerOne, roots)
	if depth != 3 {
		t.Fatalf("expected depth 3, got %d", depth)
	}
	if len(results) != len(roots) {
		t.Fatalf("expected %d results, got %d", len(roots), len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].total > results[i-1].total {
			t.Fatalf("results not sorted at %d", i)
		}
	}
	if !results[0].exact {
		t.Fatalf("best result must be exact")
	}
}

func TestDeepeningCap(t *testing.T) {
	for _, tt := range []struct{ stones, want int }{{0, 7}, {19, 7}, {20, 6}, {39, 6}, {40, 5}} {
		if got := deepeningCap(tt.stones); got != tt.want {
			t.Errorf("%d stones: expected %d, got %d", tt.stones, tt.want, got)
		}
	}
}

func TestAspirationFallsBackToFullWindow(t *testing.T) {
	b := quiet(t)
	e := New(Options{})
	s := &searcher{e: e, pos: newPosition(b, e.keys), eval: evaluateUltimate, width: ultimateWidth}
	m := topMoves(b, game.PlayerOne, 1)[0]
	const depth = 2

	s.pos.place(m, game.PlayerOne)
	defer s.pos.undo(m, game.PlayerOne)
	full := -s.negamax(depth, 1, -infinity, infinity, game.PlayerTwo, m)
	fullNodes := e.nodes

	// Previous scores far from the real one: the windowed search fails
	// and the full-window search runs after it.
	for _, prev := range []int{full - 3000, full + 3000} {
		e.nodes = 0
		if v := s.aspirate(depth, prev, game.PlayerOne, m); v != full {
			t.Fatalf("window around %d: expected %d, got %d", prev, full, v)
		}
		if e.nodes <= fullNodes {
			t.Fatalf("window around %d: expected a second search, got %d nodes against %d", prev, e.nodes, fullNodes)
		}
	}

	e.nodes = 0
	if v := s.aspirate(depth, full, game.PlayerOne, m); v != full {
		t.Fatalf("window around the real score: expected %d, got %d", full, v)
	}
}

func TestTreeOrderingPutsBlocksFirst(t *testing.T) {
	// Player one has nothing to build, so only the block term separates
	// the two ends of the open three.
	b := mustBoard(t, "", "", "", "", "....OOO")
	moves := topMoves(b, game.PlayerOne, 2)
	want := []game.Move{{X: 4, Y: 3}, {X: 4, Y: 7}}
	if len(moves) != 2 || moves[0] != want[0] || moves[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, moves)
	}
	if quickScore(b, moves[0], game.PlayerOne) != 0 {
		t.Fatalf("expected no own value at %v", moves[0])
	}
}
