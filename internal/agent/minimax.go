package agent

import (
	"sort"

	"caro-game/internal/game"

	"github.com/rs/zerolog/log"
)

const (
	hardDepth     = 4
	hardRootMoves = 15
	hardWidth     = 10

	ultimateMinDepth   = 3
	ultimateRootMoves  = 18
	aspirationWindow   = 500
	goodEnoughMargin   = 300
	stopDeepeningBelow = 2000
)

// searcher runs negamax alpha-beta over a position. Scores are from the
// side to move's point of view.
type searcher struct {
	e     *Engine
	pos   *position
	eval  func(*game.Board, game.Cell) int
	width func(ply int) int
	cache *positionCache // nil disables caching
}

// negamax searches depth more plies. last is the move just played by the
// opponent of toMove; if it made five the side to move has lost, and a
// loss found with more depth left (a faster loss) scores lower.
func (s *searcher) negamax(depth, ply, alpha, beta int, toMove game.Cell, last game.Move) int {
	if s.e.tick() {
		return 0
	}
	b := s.pos.board
	if game.IsWinningMove(b, last.X, last.Y, toMove.Opponent()) {
		return -(scoreWin + depth)
	}
	if depth == 0 {
		return s.eval(b, toMove)
	}

	alphaOrig := alpha
	if s.cache != nil {
		if v, ok := s.cache.probe(s.pos.hash, depth, alpha, beta); ok {
			return v
		}
	}

	moves := topMoves(b, toMove, s.width(ply))
	if len(moves) == 0 {
		return 0
	}

	best := -infinity
	for _, m := range moves {
		s.pos.place(m, toMove)
		v := -s.negamax(depth-1, ply+1, -beta, -alpha, toMove.Opponent(), m)
		s.pos.undo(m, toMove)
		if s.e.stopped {
			return 0
		}

		if v > best {
			best = v
		}
		if v > alpha {
			alpha = v
		}
		if alpha >= beta {
			break
		}
	}

	if s.cache != nil && !s.e.stopped {
		flag := boundExact
		switch {
		case best <= alphaOrig:
			flag = boundUpper
		case best >= beta:
			flag = boundLower
		}
		s.cache.store(s.pos.hash, depth, best, flag)
	}
	return best
}

// searchHard scores the top root moves with a fixed-depth search plus the
// weighted position term and returns the best.
func (e *Engine) searchHard(b *game.Board, player game.Cell) Decision {
	roots := topMoves(b, player, hardRootMoves)
	if len(roots) == 0 {
		return fallback()
	}
	opp := player.Opponent()
	s := &searcher{
		e:     e,
		pos:   newPosition(b, e.keys),
		eval:  evaluateWeighted,
		width: func(int) int { return hardWidth },
	}

	best := Decision{Move: roots[0], Stage: StageSearch, Score: -infinity, Depth: hardDepth}
	for _, m := range roots {
		s.pos.place(m, player)
		v := -s.negamax(hardDepth, 1, -infinity, infinity, opp, m)
		s.pos.undo(m, player)
		if e.stopped {
			break
		}
		v += weightedPosition(b, m, player)
		if v > best.Score {
			best.Move, best.Score = m, v
		}
	}
	if best.Score == -infinity {
		best.Score = 0
	}
	return best
}

// aspirate scores root move m, already placed for player, inside a window
// around prev, the score of the previous iteration. A result outside the
// window is searched again with the full window.
func (s *searcher) aspirate(depth, prev int, player game.Cell, m game.Move) int {
	lo, hi := prev-aspirationWindow, prev+aspirationWindow
	v := -s.negamax(depth, 1, -hi, -lo, player.Opponent(), m)
	if !s.e.stopped && (v <= lo || v >= hi) {
		v = -s.negamax(depth, 1, -infinity, infinity, player.Opponent(), m)
	}
	return v
}

// ultimateWidth is how many children are explored at a given ply.
func ultimateWidth(ply int) int {
	switch {
	case ply <= 2:
		return 12
	case ply <= 4:
		return 10
	}
	return 8
}

// deepeningCap is the maximum Ultimate depth for a board with this many
// stones; fuller boards get shallower searches.
func deepeningCap(stones int) int {
	switch {
	case stones < 20:
		return 7
	case stones < 40:
		return 6
	}
	return 5
}

// rootResult is one root move of the Ultimate search.
type rootResult struct {
	move  game.Move
	bonus int  // depth independent positional term
	score int  // search score of the last iteration
	total int  // score + bonus
	exact bool // false when the search only proved score <= the window floor
}

// deepen runs iterative deepening over roots. It returns the root results
// of the last completed iteration, best first, and the depth reached. A nil
// slice means not even the first iteration finished.
func (e *Engine) deepen(b *game.Board, player game.Cell, roots []game.Move) ([]rootResult, int) {
	opp := player.Opponent()
	s := &searcher{
		e:     e,
		pos:   newPosition(b, e.keys),
		eval:  evaluateUltimate,
		width: ultimateWidth,
		cache: e.cache,
	}

	current := make([]rootResult, len(roots))
	quick := make(map[game.Move]int, len(roots))
	for i, m := range roots {
		current[i] = rootResult{move: m, bonus: ultimateBonus(b, m, player)}
		quick[m] = quickScore(b, m, player)
	}
	sort.SliceStable(current, func(i, j int) bool {
		return quick[current[i].move] > quick[current[j].move]
	})

	maxDepth := deepeningCap(b.Stones())
	if e.opts.MaxDepth > 0 && e.opts.MaxDepth < maxDepth {
		maxDepth = e.opts.MaxDepth
	}
	startDepth := min(ultimateMinDepth, maxDepth)

	var completed []rootResult
	reached := 0
	for depth := startDepth; depth <= maxDepth; depth++ {
		iter := make([]rootResult, len(current))
		copy(iter, current)
		bestTotal := -infinity

		for i := range iter {
			r := &iter[i]
			s.pos.place(r.move, player)
			var v int
			if i == 0 {
				if completed != nil {
					v = s.aspirate(depth, completed[0].score, player, r.move)
				} else {
					v = -s.negamax(depth, 1, -infinity, infinity, opp, r.move)
				}
				r.exact = true
			} else {
				// Only moves that can come within refineMargin of the best
				// total need an exact score.
				floor := bestTotal - r.bonus - refineMargin
				v = -s.negamax(depth, 1, -infinity, -floor, opp, r.move)
				r.exact = v > floor
			}
			s.pos.undo(r.move, player)
			if e.stopped {
				break
			}

			r.score, r.total = v, v+r.bonus
			if r.exact && r.total > bestTotal {
				bestTotal = r.total
			}
			if v > scoreWin-goodEnoughMargin {
				log.Debug().Int("depth", depth).Stringer("move", r.move).Msg("winning line found")
				return []rootResult{*r}, depth
			}
		}
		if e.stopped {
			log.Debug().Int("depth", depth).Int64("nodes", e.nodes).Msg("node budget spent, keeping previous iteration")
			break
		}

		sort.SliceStable(iter, func(i, j int) bool {
			return iter[i].total > iter[j].total
		})
		completed, current, reached = iter, iter, depth
		log.Debug().Int("depth", depth).Stringer("best", iter[0].move).Int("score", iter[0].total).
			Int("cached", e.cache.size()).Msg("deepening iteration complete")

		if abs(iter[0].score) > scoreWin-stopDeepeningBelow {
			break
		}
	}
	return completed, reached
}
