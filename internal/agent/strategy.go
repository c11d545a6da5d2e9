package agent

import "caro-game/internal/game"

// globalControl scores how much taking m shapes the whole board for player:
// closeness to the center, the two main diagonals, fork potential, how few
// opponent replies weaken it, and how many opponent options it removes.
func globalControl(b *game.Board, m game.Move, player game.Cell) int {
	score := centerBias(m) * 10
	if m.X == m.Y || m.X+m.Y == game.Size-1 {
		score += 50
	}
	score += forkPotential(b, m, player) * 3
	score += stability(b, m, player)
	score += chokePoints(b, m, player)
	return score
}

// stability is 30 points for each of the opponent's ten best replies that
// leaves player's lines through m intact.
func stability(b *game.Board, m game.Move, player game.Cell) int {
	const replies = 10
	opp := player.Opponent()
	b.Place(m.X, m.Y, player)
	before := quickScore(b, m, player)
	counters := 0
	for _, r := range topMoves(b, opp, replies) {
		b.Place(r.X, r.Y, opp)
		if quickScore(b, m, player) < before {
			counters++
		}
		b.Remove(r.X, r.Y)
	}
	b.Remove(m.X, m.Y)
	return (replies - counters) * 30
}

// chokePoints rewards moves that reduce the number of cells where the
// opponent can build at least a closed three.
func chokePoints(b *game.Board, m game.Move, player game.Cell) int {
	opp := player.Opponent()
	before := buildingCells(b, opp)
	b.Place(m.X, m.Y, player)
	after := buildingCells(b, opp)
	b.Remove(m.X, m.Y)
	if after >= before {
		return 0
	}
	return (before - after) * 20
}

func buildingCells(b *game.Board, player game.Cell) int {
	n := 0
	for _, c := range generateCandidates(b) {
		if quickScore(b, c, player) >= scoreThree {
			n++
		}
	}
	return n
}

// territory counts player's stones and free cells in the 5x5 window
// around m.
func territory(b *game.Board, m game.Move, player game.Cell) int {
	score := 0
	for x := m.X - 2; x <= m.X+2; x++ {
		for y := m.Y - 2; y <= m.Y+2; y++ {
			if !game.InBounds(x, y) || (x == m.X && y == m.Y) {
				continue
			}
			switch b[x][y] {
			case player:
				score += 15
			case game.Empty:
				score += 5
			}
		}
	}
	return score
}

// patternRecognition values the shapes m makes and breaks, plus ladder
// traps: opponent replies after which player still has two or more cells
// that make a four.
func patternRecognition(b *game.Board, m game.Move, player game.Cell) int {
	opp := player.Opponent()
	score := 0
	for _, d := range game.Directions {
		own := game.AnalyzePattern(b, m.X, m.Y, d, player)
		switch {
		case own.Count == 4 && own.OpenEnds == 2:
			score += 5000
		case own.Count == 4 && own.OpenEnds == 1:
			score += 1000
		case own.Count == 3 && own.OpenEnds == 2:
			score += 1500
		case own.Count == 3 && own.OpenEnds == 1:
			score += 200
		}
		theirs := game.AnalyzePattern(b, m.X, m.Y, d, opp)
		switch {
		case theirs.Count >= 4 && theirs.OpenEnds > 0:
			score += 8000
		case theirs.Count == 3 && theirs.OpenEnds == 2:
			score += 1200
		}
	}
	if threats := countThreats(b, m, player); threats >= 2 {
		score += 4000 * threats
	}

	b.Place(m.X, m.Y, player)
	for _, r := range topMoves(b, opp, 5) {
		b.Place(r.X, r.Y, opp)
		if threatCells(b, player) >= 2 {
			score += 800
		}
		b.Remove(r.X, r.Y)
	}
	b.Remove(m.X, m.Y)
	return score
}

// ultimateCandidates filters root moves in two stages: the cheap ordering
// score keeps 2*limit moves, then the detailed positional score keeps limit.
func ultimateCandidates(b *game.Board, player game.Cell, limit int) []game.Move {
	cheap := rankMoves(generateCandidates(b), func(m game.Move) int {
		return orderScore(b, m, player)
	})
	shortlist := movesOf(cheap, 2*limit)

	detailed := rankMoves(shortlist, func(m game.Move) int {
		s := patternRecognition(b, m, player)
		s += globalControl(b, m, player) / 2
		s += territory(b, m, player) / 2
		s += forkPotential(b, m, player)
		if wouldAllowThree(b, m, player) {
			s -= 5000
		}
		return s
	})
	return movesOf(detailed, limit)
}

// strategicControlMove picks a positional move without searching. In the
// opening it looks at the five candidates closest to the center; later it
// only answers when a move sets up two forks at once.
func strategicControlMove(b *game.Board, player game.Cell) (game.Move, int, bool) {
	moves := generateCandidates(b)
	if len(moves) == 0 {
		return game.Move{}, 0, false
	}

	if b.Stones() < 10 {
		central := movesOf(rankMoves(moves, func(m game.Move) int {
			return -manhattan(m, game.Center)
		}), 5)
		best := scoredMove{score: -infinity}
		for _, m := range central {
			if s := globalControl(b, m, player); s > best.score {
				best = scoredMove{move: m, score: s}
			}
		}
		if best.score >= 500 {
			return best.move, best.score, true
		}
		return game.Move{}, 0, false
	}

	best := scoredMove{score: -infinity}
	for _, m := range moves {
		fork := forkPotential(b, m, player)
		if fork < 600 {
			continue
		}
		if s := globalControl(b, m, player) + fork*2; s > best.score {
			best = scoredMove{move: m, score: s}
		}
	}
	if best.score > 1500 {
		return best.move, best.score, true
	}
	return game.Move{}, 0, false
}

// ultimateBonus is the depth-independent term added to each root move's
// search score.
func ultimateBonus(b *game.Board, m game.Move, player game.Cell) int {
	bonus := globalControl(b, m, player)
	if wouldAllowThree(b, m, player) {
		bonus -= 10000
	}
	if wouldAllowDoubleThreat(b, m, player) {
		bonus -= 8000
	}
	if countThreats(b, m, player) >= 3 {
		bonus += 10000
	}
	if forkCount(b, m, player) >= 2 {
		bonus += 3000
	}
	return bonus
}
