package agent

import (
	"time"

	"caro-game/internal/game"

	"github.com/rs/zerolog/log"
)

// Options bound the work done by one move computation.
type Options struct {
	// MaxDepth caps the Ultimate iterative deepening depth. Zero keeps the
	// adaptive cap (7, 6 or 5 plies by stone count).
	MaxDepth int
	// NodeBudget stops the Hard and Ultimate searches after this many
	// nodes. The last fully searched result is used. Zero means unlimited.
	NodeBudget int64
	// Refine enables the playout re-ranking of near-tied Ultimate moves.
	Refine bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Refine: true}
}

// Stage names the step of a difficulty pipeline that produced a move.
type Stage string

const (
	StageWin           Stage = "win"
	StageBlock         Stage = "block"
	StageDoubleThreat  Stage = "double_threat"
	StageForcedWin     Stage = "forced_win"
	StageForcedDefense Stage = "forced_defense"
	StageStrategic     Stage = "strategic"
	StageHeuristic     Stage = "heuristic"
	StageSearch        Stage = "search"
	StageRefined       Stage = "refined"
	StageFallback      Stage = "fallback"
)

// Decision is a chosen move plus how it was found.
type Decision struct {
	Move      game.Move
	Stage     Stage
	Score     int
	Depth     int
	Nodes     int64
	CacheHits int64
	Elapsed   time.Duration
}

// Engine picks moves for one game at a time. It owns a position cache that
// is reset on every call, so an Engine must not be shared between
// goroutines; use one per concurrent game.
type Engine struct {
	opts  Options
	keys  *zobrist
	cache *positionCache

	nodes       int64
	solverNodes int64
	stopped     bool
}

// New creates an engine. The fingerprint table is built from a fixed seed,
// so two engines with the same options choose the same moves.
func New(opts Options) *Engine {
	return &Engine{
		opts:  opts,
		keys:  newZobrist(zobristSeed),
		cache: newPositionCache(),
	}
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// ChooseMove returns player's move on b at the given difficulty.
// b is used as scratch space during the search and is restored before
// ChooseMove returns.
func (e *Engine) ChooseMove(b *game.Board, player game.Cell, level Difficulty) game.Move {
	return e.Decide(b, player, level).Move
}

// Decide is ChooseMove with search statistics.
func (e *Engine) Decide(b *game.Board, player game.Cell, level Difficulty) Decision {
	start := time.Now()
	snapshot := *b
	e.nodes, e.solverNodes, e.stopped = 0, 0, false
	e.cache.clear()

	var d Decision
	switch {
	case !player.Valid():
		d = fallback()
	case level <= Easy:
		d = e.chooseEasy(b, player)
	case level == Normal:
		d = e.chooseNormal(b, player)
	case level == Hard:
		d = e.chooseHard(b, player)
	default:
		d = e.chooseUltimate(b, player)
	}

	if *b != snapshot {
		log.Error().Str("difficulty", level.String()).Str("stage", string(d.Stage)).
			Msg("board changed during move search, restoring")
		*b = snapshot
	}

	d.Nodes = e.nodes + e.solverNodes
	d.CacheHits = e.cache.hits
	d.Elapsed = time.Since(start)
	log.Debug().
		Str("difficulty", level.String()).
		Int("player", int(player)).
		Str("stage", string(d.Stage)).
		Stringer("move", d.Move).
		Int("score", d.Score).
		Int("depth", d.Depth).
		Int64("nodes", d.Nodes).
		Dur("elapsed", d.Elapsed).
		Msg("move chosen")
	return d
}

func fallback() Decision {
	return Decision{Move: game.Center, Stage: StageFallback}
}

// tick counts a search node and reports whether the node budget is spent.
func (e *Engine) tick() bool {
	e.nodes++
	if e.opts.NodeBudget > 0 && e.nodes > e.opts.NodeBudget {
		e.stopped = true
	}
	return e.stopped
}
