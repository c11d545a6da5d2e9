package agent

import (
	"testing"

	"caro-game/internal/game"
)

func TestForcedWin(t *testing.T) {
	t.Run("open three becomes open four", func(t *testing.T) {
		b := mustBoard(t, "", "", "", "", "", "", "", ".....XXX", ".....OO")
		m, ok := New(DefaultOptions()).findForcedWin(b, game.PlayerOne)
		if !ok || (m != (game.Move{X: 7, Y: 4}) && m != (game.Move{X: 7, Y: 8})) {
			t.Fatalf("expected (7,4) or (7,8), got %v %v", m, ok)
		}
	})

	t.Run("four then open four", func(t *testing.T) {
		// (5,8) fours the row and forces (5,9); the column then opens up.
		b := mustBoard(t,
			"",
			"",
			"",
			"",
			"",
			"....OXXX",
			"........X",
			"........X",
			"",
			"",
			"..........O",
			"...........O",
			".O",
		)
		before := *b
		m, ok := New(DefaultOptions()).findForcedWin(b, game.PlayerOne)
		if !ok || m != (game.Move{X: 5, Y: 8}) {
			t.Fatalf("expected (5,8), got %v %v", m, ok)
		}
		if *b != before {
			t.Fatalf("board changed during solving")
		}
	})

	t.Run("defender has a five", func(t *testing.T) {
		b := mustBoard(t, "", "", ".OOOO", "", "", "", "", ".....XXX")
		if m, ok := New(DefaultOptions()).findForcedWin(b, game.PlayerOne); ok {
			t.Fatalf("player two wins first, got forced win at %v", m)
		}
	})

	t.Run("nothing to force", func(t *testing.T) {
		b := mustBoard(t, "", "", "", "", "", "", "", "......XX", "......O")
		if m, ok := New(DefaultOptions()).findForcedWin(b, game.PlayerOne); ok {
			t.Fatalf("two stones cannot force a win, got %v", m)
		}
	})
}

func TestUltimateDefendsAgainstForcedWin(t *testing.T) {
	b := mustBoard(t,
		"",
		"",
		"",
		"",
		"",
		"....OXXX",
		"........X",
		"........X",
		"",
		"",
		"..........O",
		"...........O",
		".O",
	)
	d := New(DefaultOptions()).Decide(b, game.PlayerTwo, Ultimate)
	if d.Stage != StageForcedDefense || d.Move != (game.Move{X: 5, Y: 8}) {
		t.Fatalf("expected forced defense at (5,8), got %v (stage %s)", d.Move, d.Stage)
	}
}
