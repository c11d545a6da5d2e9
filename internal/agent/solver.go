package agent

import (
	"sort"

	"caro-game/internal/game"
)

const (
	solverMinDepth   = 4
	solverMaxDepth   = 7
	solverAttackMax  = 10
	solverNodeBudget = 20000
)

const (
	solverModeAttack uint64 = 0xA5A5A5A5A5A5A5A5
	solverModeDefend uint64 = 0x5A5A5A5A5A5A5A5A
)

type solverEntry struct {
	depth  int
	result bool
}

// solver proves wins made only of forcing moves: every attacker move wins
// or makes a four, so the defender must answer on the completing cell.
type solver struct {
	pos      *position
	attacker game.Cell
	tt       map[uint64]solverEntry
	nodes    int64
	budget   int64
}

// findForcedWin looks for a move that wins for attacker against any
// defence within solverMaxDepth plies, trying shallow depths first.
// Running out of nodes only ever hides a win, it never reports a false one.
func (e *Engine) findForcedWin(b *game.Board, attacker game.Cell) (game.Move, bool) {
	s := &solver{
		pos:      newPosition(b, e.keys),
		attacker: attacker,
		tt:       make(map[uint64]solverEntry, 1<<10),
		budget:   solverNodeBudget,
	}
	defer func() { e.solverNodes += s.nodes }()

	for depth := solverMinDepth; depth <= solverMaxDepth; depth++ {
		if m, ok := s.root(depth); ok {
			return m, true
		}
		if s.nodes > s.budget {
			break
		}
	}
	return game.Move{}, false
}

// attackMoves returns the attacker's winning and four-making moves, wins
// first, then by number of fours, then by build value.
func (s *solver) attackMoves() []game.Move {
	b := s.pos.board
	var ranked []scoredMove
	for _, m := range generateCandidates(b) {
		if game.IsWinningMove(b, m.X, m.Y, s.attacker) {
			ranked = append(ranked, scoredMove{move: m, score: infinity})
			continue
		}
		if n := countThreats(b, m, s.attacker); n > 0 {
			ranked = append(ranked, scoredMove{move: m, score: n*scoreWin + quickScore(b, m, s.attacker)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return movesOf(ranked, solverAttackMax)
}

func (s *solver) root(depth int) (game.Move, bool) {
	b := s.pos.board
	for _, m := range s.attackMoves() {
		if game.IsWinningMove(b, m.X, m.Y, s.attacker) {
			return m, true
		}
		s.pos.place(m, s.attacker)
		escaped := s.defenderEscapes(depth - 1)
		s.pos.undo(m, s.attacker)
		if !escaped {
			return m, true
		}
	}
	return game.Move{}, false
}

func (s *solver) spent() bool {
	s.nodes++
	return s.nodes > s.budget
}

func (s *solver) attackerForces(depth int) bool {
	if depth <= 0 || s.spent() {
		return false
	}
	key := s.pos.hash ^ solverModeAttack
	if e, ok := s.tt[key]; ok && e.depth >= depth {
		return e.result
	}

	b := s.pos.board
	result := false
	for _, m := range s.attackMoves() {
		if game.IsWinningMove(b, m.X, m.Y, s.attacker) {
			result = true
			break
		}
		s.pos.place(m, s.attacker)
		escaped := s.defenderEscapes(depth - 1)
		s.pos.undo(m, s.attacker)
		if !escaped {
			result = true
			break
		}
	}
	s.tt[key] = solverEntry{depth: depth, result: result}
	return result
}

// defenderEscapes reports whether the defender survives after the
// attacker's last move. A defender with its own five to play escapes; one
// facing two completing cells does not; otherwise it must block the single
// completing cell.
func (s *solver) defenderEscapes(depth int) bool {
	if depth <= 0 || s.spent() {
		return true
	}
	key := s.pos.hash ^ solverModeDefend
	if e, ok := s.tt[key]; ok && e.depth >= depth {
		return e.result
	}

	b := s.pos.board
	defender := s.attacker.Opponent()
	if _, ok := findWinningMove(b, defender); ok {
		s.tt[key] = solverEntry{depth: depth, result: true}
		return true
	}

	blocks := winningCells(b, s.attacker, 2)
	var result bool
	switch len(blocks) {
	case 0:
		result = true
	case 1:
		s.pos.place(blocks[0], defender)
		result = !s.attackerForces(depth - 1)
		s.pos.undo(blocks[0], defender)
	default:
		result = false
	}
	s.tt[key] = solverEntry{depth: depth, result: result}
	return result
}
