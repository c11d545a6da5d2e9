package agent

import "caro-game/internal/game"

// Each difficulty is a pipeline of stages. The first stage that produces a
// move wins; cheap tactical checks come before any search.

func (e *Engine) chooseEasy(b *game.Board, player game.Cell) Decision {
	if m, ok := findWinningMove(b, player); ok {
		return Decision{Move: m, Stage: StageWin, Score: scoreWin}
	}
	if m, ok := findBlockingMove(b, player, 3, 4); ok {
		return Decision{Move: m, Stage: StageBlock}
	}

	moves := generateCandidates(b)
	if len(moves) == 0 {
		return fallback()
	}
	// The center term only separates otherwise equal cells, such as every
	// cell of an empty board.
	best := scoredMove{move: moves[0], score: -infinity}
	for _, m := range moves {
		if v := threatMap(b, m, player, 2) + centerBias(m); v > best.score {
			best = scoredMove{move: m, score: v}
		}
	}
	return Decision{Move: best.move, Stage: StageHeuristic, Score: best.score, Depth: 2}
}

func (e *Engine) chooseNormal(b *game.Board, player game.Cell) Decision {
	if m, ok := findWinningMove(b, player); ok {
		return Decision{Move: m, Stage: StageWin, Score: scoreWin}
	}
	if m, ok := findBlockingMove(b, player, 3, 4); ok {
		return Decision{Move: m, Stage: StageBlock}
	}
	if m, ok := findMultiThreat(b, player, 2); ok {
		return Decision{Move: m, Stage: StageDoubleThreat, Score: scoreDoubleThreat}
	}

	moves := generateCandidates(b)
	if len(moves) == 0 {
		return fallback()
	}

	// A strategic move is taken when it is worth at least a four.
	strategic := scoredMove{move: moves[0], score: -infinity}
	for _, m := range moves {
		v := advancedHeuristic(b, m, player, 2) + centerBias(m)*3
		if v > strategic.score {
			strategic = scoredMove{move: m, score: v}
		}
	}
	if strategic.score >= scoreThreat {
		return Decision{Move: strategic.move, Stage: StageStrategic, Score: strategic.score, Depth: 2}
	}

	best := scoredMove{move: moves[0], score: -infinity}
	for _, m := range moves {
		if v := advancedHeuristic(b, m, player, 3) + centerBias(m); v > best.score {
			best = scoredMove{move: m, score: v}
		}
	}
	return Decision{Move: best.move, Stage: StageHeuristic, Score: best.score, Depth: 3}
}

func (e *Engine) chooseHard(b *game.Board, player game.Cell) Decision {
	if m, ok := findWinningMove(b, player); ok {
		return Decision{Move: m, Stage: StageWin, Score: scoreWin}
	}
	if m, ok := findBlockingMove(b, player, 4, 4); ok {
		return Decision{Move: m, Stage: StageBlock}
	}
	if m, ok := findMultiThreat(b, player, 2); ok {
		return Decision{Move: m, Stage: StageDoubleThreat, Score: scoreDoubleThreat}
	}
	return e.searchHard(b, player)
}

func (e *Engine) chooseUltimate(b *game.Board, player game.Cell) Decision {
	opp := player.Opponent()
	if m, ok := e.findForcedWin(b, player); ok {
		return Decision{Move: m, Stage: StageForcedWin, Score: scoreWin}
	}
	if m, ok := e.findForcedWin(b, opp); ok {
		return Decision{Move: m, Stage: StageForcedDefense}
	}
	if m, ok := findWinningMove(b, player); ok {
		return Decision{Move: m, Stage: StageWin, Score: scoreWin}
	}
	if m, ok := findBlockingMove(b, player, 4, 4); ok {
		return Decision{Move: m, Stage: StageBlock}
	}
	if m, ok := findMultiThreat(b, player, 2); ok {
		return Decision{Move: m, Stage: StageDoubleThreat, Score: scoreDoubleThreat}
	}
	if m, ok := findBlockingMove(b, player, 3, 3); ok {
		return Decision{Move: m, Stage: StageBlock}
	}
	if m, score, ok := strategicControlMove(b, player); ok {
		return Decision{Move: m, Stage: StageStrategic, Score: score}
	}

	roots := ultimateCandidates(b, player, ultimateRootMoves)
	if len(roots) == 0 {
		return fallback()
	}
	results, depth := e.deepen(b, player, roots)
	if results == nil {
		return Decision{Move: roots[0], Stage: StageSearch}
	}

	d := Decision{Move: results[0].move, Stage: StageSearch, Score: results[0].total, Depth: depth}
	if e.opts.Refine {
		if r, changed := refine(b, player, results); changed {
			d.Move, d.Score, d.Stage = r.move, r.total, StageRefined
		}
	}
	return d
}
