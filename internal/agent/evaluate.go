package agent

import "caro-game/internal/game"

// Score weights. A five is worth scoreWin; everything else stays well below
// it so a certain win always outranks a heuristic preference.
const (
	scoreWin          = 10000
	scoreOpenFour     = 5000
	scoreBlockFour    = 4000
	scoreDoubleThreat = 2000
	scoreOpenThree    = 800
	scoreThreat       = 500
	scoreThree        = 100
	scoreTwo          = 10

	// evalLimit bounds static evaluations.
	evalLimit = scoreWin / 2

	infinity = 999999
)

// patternScore values one line. Blocking an opponent line counts double.
func patternScore(p game.Pattern, blocking bool) int {
	s := 0
	switch {
	case p.Count >= game.WinLength:
		s = scoreWin
	case p.Count == 4 && p.OpenEnds == 2:
		s = scoreOpenFour
	case p.Count == 4 && p.OpenEnds == 1:
		s = scoreThreat
	case p.Count == 3 && p.OpenEnds == 2:
		s = scoreOpenThree
	case p.Count == 3 && p.OpenEnds == 1:
		s = scoreThree
	case p.Count == 2 && p.OpenEnds > 0:
		s = scoreTwo
	}
	if blocking {
		s *= 2
	}
	return s
}

// quickScore is what player builds by taking m.
func quickScore(b *game.Board, m game.Move, player game.Cell) int {
	s := 0
	for _, d := range game.Directions {
		s += patternScore(game.AnalyzePattern(b, m.X, m.Y, d, player), false)
	}
	return s
}

// blockScore is what player takes away from the opponent by taking m.
func blockScore(b *game.Board, m game.Move, player game.Cell) int {
	opp := player.Opponent()
	s := 0
	for _, d := range game.Directions {
		s += patternScore(game.AnalyzePattern(b, m.X, m.Y, d, opp), true)
	}
	return s
}

// orderScore ranks candidates for move ordering and filtering.
func orderScore(b *game.Board, m game.Move, player game.Cell) int {
	return quickScore(b, m, player) + blockScore(b, m, player)
}

// centerBias is the distance term shared by the tiers: 15 on the center,
// falling by one per step of manhattan distance.
func centerBias(m game.Move) int {
	return game.Size - manhattan(m, game.Center)
}

// threatMap is the Easy evaluation: build plus block value at m, minus half
// of the opponent's best answer when depth allows a reply.
func threatMap(b *game.Board, m game.Move, player game.Cell, depth int) int {
	score := orderScore(b, m, player)
	if depth <= 1 {
		return score
	}
	opp := player.Opponent()
	b.Place(m.X, m.Y, player)
	best := 0
	for _, r := range topMoves(b, opp, 5) {
		if v := threatMap(b, r, opp, depth-1); v > best {
			best = v
		}
	}
	b.Remove(m.X, m.Y)
	return score - best/2
}

// advancedHeuristic is the Normal evaluation. Own lines weigh 2, blocked
// opponent lines 3, and fours made at m add a threat bonus. With depth > 1
// a third of the opponent's best answer among its top 7 is subtracted.
func advancedHeuristic(b *game.Board, m game.Move, player game.Cell, depth int) int {
	opp := player.Opponent()
	score, threats := 0, 0
	for _, d := range game.Directions {
		own := game.AnalyzePattern(b, m.X, m.Y, d, player)
		score += 2 * patternScore(own, false)
		if isFourThreat(own) {
			threats++
		}
		score += 3 * patternScore(game.AnalyzePattern(b, m.X, m.Y, d, opp), false)
	}
	switch {
	case threats >= 2:
		score += scoreDoubleThreat
	case threats == 1:
		score += scoreThreat
	}
	if depth <= 1 {
		return score
	}

	b.Place(m.X, m.Y, player)
	best := 0
	for _, r := range topMoves(b, opp, 7) {
		if v := advancedHeuristic(b, r, opp, depth-1); v > best {
			best = v
		}
	}
	b.Remove(m.X, m.Y)
	return score - best/3
}

// weightedPosition is the Hard per-move term added to the search score.
func weightedPosition(b *game.Board, m game.Move, player game.Cell) int {
	opp := player.Opponent()
	score := centerBias(m) * 2
	threats := 0
	for _, d := range game.Directions {
		own := game.AnalyzePattern(b, m.X, m.Y, d, player)
		score += patternScore(own, false)
		if isFourThreat(own) {
			threats++
		}
		theirs := game.AnalyzePattern(b, m.X, m.Y, d, opp)
		switch {
		case theirs.Count >= 4:
			score += scoreBlockFour
		case theirs.Count == 3 && theirs.OpenEnds > 0:
			score += scoreOpenThree
		}
	}
	if threats >= 2 {
		score += scoreDoubleThreat
	}
	return score
}

// lineScore sums the pattern scores through every stone of player. Each run
// is counted once per stone it contains. Runs of three or more open at both
// ends get openPct percent extra.
func lineScore(b *game.Board, player game.Cell, openPct int) int {
	total := 0
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] != player {
				continue
			}
			for _, d := range game.Directions {
				p := game.AnalyzePattern(b, x, y, d, player)
				s := patternScore(p, false)
				if p.Count >= 3 && p.OpenEnds == 2 {
					s += s * openPct / 100
				}
				total += s
			}
		}
	}
	return total
}

// evaluateWeighted is the Hard static evaluation from player's side.
func evaluateWeighted(b *game.Board, player game.Cell) int {
	return clampEval(lineScore(b, player, 0) - 2*lineScore(b, player.Opponent(), 0))
}

// evaluateUltimate is the Ultimate static evaluation from player's side.
// Double-open threes and fours weigh extra on both sides, opponent lines
// weigh three times, and line control adds a tenfold difference term.
func evaluateUltimate(b *game.Board, player game.Cell) int {
	opp := player.Opponent()
	own := lineScore(b, player, 50)
	theirs := 3 * lineScore(b, opp, 33)
	control := playerControl(b, player) - playerControl(b, opp)
	return clampEval(own - theirs + control*10)
}

// playerControl measures how much of the board player's lines reach.
func playerControl(b *game.Board, player game.Cell) int {
	total := 0
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] != player {
				continue
			}
			for _, d := range game.Directions {
				p := game.AnalyzePattern(b, x, y, d, player)
				total += p.Count * (p.OpenEnds + 1)
			}
		}
	}
	return total
}

func clampEval(v int) int {
	if v > evalLimit {
		return evalLimit
	}
	if v < -evalLimit {
		return -evalLimit
	}
	return v
}

func isFourThreat(p game.Pattern) bool {
	return p.Count == 4 && p.OpenEnds > 0
}
