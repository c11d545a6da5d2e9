package agent

import (
	"context"
	"errors"
	"fmt"

	"caro-game/internal/game"

	"github.com/rs/zerolog/log"
)

// ErrIllegalMove is returned when an engine picks an occupied or
// off-board cell during a match.
var ErrIllegalMove = errors.New("illegal move")

// Seat is one side of a match.
type Seat struct {
	Level  Difficulty
	Engine *Engine
}

// MatchResult describes a finished match. Winner is Empty for a draw.
type MatchResult struct {
	Winner    game.Cell
	Moves     []game.Move
	Decisions []Decision
	Board     game.Board
}

// PlayMatch plays first (as PlayerOne, moving first) against second on an
// empty board until someone makes five, the board fills up, or ctx is done.
func PlayMatch(ctx context.Context, first, second Seat) (res MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("match panicked after %d moves: %v", len(res.Moves), r)
		}
	}()

	b := &res.Board
	toMove := game.PlayerOne
	for !b.IsFull() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		seat := first
		if toMove == game.PlayerTwo {
			seat = second
		}
		d := seat.Engine.Decide(b, toMove, seat.Level)
		m := d.Move
		if !game.InBounds(m.X, m.Y) || !b.IsEmpty(m.X, m.Y) {
			return res, fmt.Errorf("%w: %s chose %v for player %d", ErrIllegalMove, seat.Level, m, toMove)
		}

		b.Place(m.X, m.Y, toMove)
		res.Moves = append(res.Moves, m)
		res.Decisions = append(res.Decisions, d)

		if game.IsWinningMove(b, m.X, m.Y, toMove) {
			res.Winner = toMove
			log.Debug().Int("winner", int(toMove)).Int("moves", len(res.Moves)).Msg("match finished")
			return res, nil
		}
		toMove = toMove.Opponent()
	}

	log.Debug().Int("moves", len(res.Moves)).Msg("match drawn")
	return res, nil
}
