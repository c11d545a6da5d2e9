package agent

import "caro-game/internal/game"

// findWinningMove returns the first empty cell, in row-major order, where
// player completes five.
func findWinningMove(b *game.Board, player game.Cell) (game.Move, bool) {
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] == game.Empty && game.IsWinningMove(b, x, y, player) {
				return game.Move{X: x, Y: y}, true
			}
		}
	}
	return game.Move{}, false
}

// winningCells lists every cell where player completes five, stopping
// after limit cells when limit > 0.
func winningCells(b *game.Board, player game.Cell, limit int) []game.Move {
	var cells []game.Move
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] == game.Empty && game.IsWinningMove(b, x, y, player) {
				cells = append(cells, game.Move{X: x, Y: y})
				if limit > 0 && len(cells) >= limit {
					return cells
				}
			}
		}
	}
	return cells
}

// findBlockingMove looks for a cell that cuts an existing opponent run of
// minRun..maxRun stones, longest runs first. The run must have an open end,
// unless the cell is where the opponent would complete five.
func findBlockingMove(b *game.Board, player game.Cell, minRun, maxRun int) (game.Move, bool) {
	opp := player.Opponent()
	for run := maxRun; run >= minRun; run-- {
		for x := 0; x < game.Size; x++ {
			for y := 0; y < game.Size; y++ {
				if b[x][y] != game.Empty {
					continue
				}
				for _, d := range game.Directions {
					p := game.AnalyzePattern(b, x, y, d, opp)
					existing := min(p.Count-1, 4)
					if existing == run && (existing >= 4 || p.OpenEnds > 0) {
						return game.Move{X: x, Y: y}, true
					}
				}
			}
		}
	}
	return game.Move{}, false
}

// countThreats counts the directions in which player taking m makes a four
// that still has an open end.
func countThreats(b *game.Board, m game.Move, player game.Cell) int {
	n := 0
	for _, d := range game.Directions {
		if isFourThreat(game.AnalyzePattern(b, m.X, m.Y, d, player)) {
			n++
		}
	}
	return n
}

// findMultiThreat returns the first empty cell, row-major, where player
// makes at least minThreats fours at once.
func findMultiThreat(b *game.Board, player game.Cell, minThreats int) (game.Move, bool) {
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] != game.Empty {
				continue
			}
			m := game.Move{X: x, Y: y}
			if countThreats(b, m, player) >= minThreats {
				return m, true
			}
		}
	}
	return game.Move{}, false
}

// threatCells counts empty cells where player could make a four.
func threatCells(b *game.Board, player game.Cell) int {
	n := 0
	for _, m := range generateCandidates(b) {
		if countThreats(b, m, player) > 0 {
			n++
		}
	}
	return n
}

// forkCount counts directions through m with a run of three or more and an
// open end.
func forkCount(b *game.Board, m game.Move, player game.Cell) int {
	n := 0
	for _, d := range game.Directions {
		p := game.AnalyzePattern(b, m.X, m.Y, d, player)
		if p.Count >= 3 && p.OpenEnds > 0 {
			n++
		}
	}
	return n
}

func forkPotential(b *game.Board, m game.Move, player game.Cell) int {
	switch n := forkCount(b, m, player); {
	case n >= 2:
		return 600
	case n == 1:
		return 200
	}
	return 0
}

// wouldAllowThree reports whether, after player takes m, one of the
// opponent's ten best replies makes a three with an open end.
func wouldAllowThree(b *game.Board, m game.Move, player game.Cell) bool {
	opp := player.Opponent()
	b.Place(m.X, m.Y, player)
	defer b.Remove(m.X, m.Y)
	for _, r := range topMoves(b, opp, 10) {
		if forkCount(b, r, opp) > 0 {
			return true
		}
	}
	return false
}

// wouldAllowDoubleThreat reports whether, after player takes m, one of the
// opponent's eight best replies makes two fours at once.
func wouldAllowDoubleThreat(b *game.Board, m game.Move, player game.Cell) bool {
	opp := player.Opponent()
	b.Place(m.X, m.Y, player)
	defer b.Remove(m.X, m.Y)
	for _, r := range topMoves(b, opp, 8) {
		if countThreats(b, r, opp) >= 2 {
			return true
		}
	}
	return false
}
