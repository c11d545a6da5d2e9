package agent

import (
	"sort"

	"caro-game/internal/game"
)

const (
	neighbourRadius = 2
	openingRadius   = 3
)

type scoredMove struct {
	move  game.Move
	score int
}

// generateCandidates returns the empty cells within neighbourRadius of any
// stone, in row-major order. An empty board yields the cells around the
// center instead.
func generateCandidates(b *game.Board) []game.Move {
	var near [game.Size][game.Size]bool
	occupied := false
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if b[x][y] == game.Empty {
				continue
			}
			occupied = true
			markAround(&near, x, y, neighbourRadius)
		}
	}
	if !occupied {
		markAround(&near, game.Center.X, game.Center.Y, openingRadius)
	}

	moves := make([]game.Move, 0, 64)
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if near[x][y] && b[x][y] == game.Empty {
				moves = append(moves, game.Move{X: x, Y: y})
			}
		}
	}
	return moves
}

func markAround(near *[game.Size][game.Size]bool, cx, cy, r int) {
	for x := max(cx-r, 0); x <= min(cx+r, game.Size-1); x++ {
		for y := max(cy-r, 0); y <= min(cy+r, game.Size-1); y++ {
			near[x][y] = true
		}
	}
}

// rankMoves scores every move and sorts them best first. Equal scores keep
// their input order, so row-major input gives row-major tie-breaks.
func rankMoves(moves []game.Move, score func(game.Move) int) []scoredMove {
	ranked := make([]scoredMove, len(moves))
	for i, m := range moves {
		ranked[i] = scoredMove{move: m, score: score(m)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func movesOf(ranked []scoredMove, limit int) []game.Move {
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	moves := make([]game.Move, len(ranked))
	for i, sm := range ranked {
		moves[i] = sm.move
	}
	return moves
}

// topMoves returns the limit best candidates for player by ordering score.
func topMoves(b *game.Board, player game.Cell, limit int) []game.Move {
	ranked := rankMoves(generateCandidates(b), func(m game.Move) int {
		return orderScore(b, m, player)
	})
	return movesOf(ranked, limit)
}

func manhattan(a, b game.Move) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
