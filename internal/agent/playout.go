package agent

import "caro-game/internal/game"

const (
	playoutPlies = 4
	refineMargin = 500
	refineTop    = 3
)

// playout plays plies greedy moves, both sides taking their best ordering
// score, starting with toMove. The result is from mover's side: a five
// scores the win value, otherwise the Ultimate evaluation of the final
// position. The board is restored before returning.
func playout(b *game.Board, mover, toMove game.Cell, plies int) int {
	played := make([]game.Move, 0, plies)
	defer func() {
		for i := len(played) - 1; i >= 0; i-- {
			b.Remove(played[i].X, played[i].Y)
		}
	}()

	for i := 0; i < plies; i++ {
		moves := topMoves(b, toMove, 1)
		if len(moves) == 0 {
			break
		}
		m := moves[0]
		b.Place(m.X, m.Y, toMove)
		played = append(played, m)
		if game.IsWinningMove(b, m.X, m.Y, toMove) {
			if toMove == mover {
				return scoreWin
			}
			return -scoreWin
		}
		toMove = toMove.Opponent()
	}
	return evaluateUltimate(b, mover)
}

// refine re-ranks the root moves whose search totals are within
// refineMargin of the best by blending in a playout score. results must be
// sorted best first. It reports whether the choice changed.
func refine(b *game.Board, player game.Cell, results []rootResult) (rootResult, bool) {
	best := results[0]
	if len(results) < refineTop || best.score >= scoreWin-1000 {
		return best, false
	}

	chosen, chosenBlend := best, -infinity
	for _, r := range results[:refineTop] {
		if !r.exact || r.total < best.total-refineMargin {
			break
		}
		b.Place(r.move.X, r.move.Y, player)
		p := playout(b, player, player.Opponent(), playoutPlies)
		b.Remove(r.move.X, r.move.Y)

		if blend := (r.total*7 + p*3) / 10; blend > chosenBlend {
			chosen, chosenBlend = r, blend
		}
	}
	return chosen, chosen.move != best.move
}
