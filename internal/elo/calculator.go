package elo

import (
	"math"

	"caro-game/internal/game"
)

type GameResult int

const (
	Loss GameResult = 0
	Draw GameResult = 1
	Win  GameResult = 2
)

const (
	// K-factors based on number of games played
	KFactorNewbie = 32 // < 30 games
	KFactorActive = 24 // 30-100 games
	KFactorExpert = 16 // > 100 games

	InitialRating = 1500
	MinRating     = 100
	MaxRating     = 3000

	// MaxPerformanceGap bounds the estimate for a perfect or zero score.
	MaxPerformanceGap = 800
)

// Score is the points value of a result: 1, 0.5 or 0.
func (r GameResult) Score() float64 {
	switch r {
	case Win:
		return 1.0
	case Draw:
		return 0.5
	default:
		return 0.0
	}
}

// NewRating returns the rating after one game.
// gamesPlayed is the number of games already rated (used for K-factor).
func NewRating(rating, opponentRating int, result GameResult, gamesPlayed int) int {
	change := float64(KFactor(gamesPlayed)) * (result.Score() - ExpectedScore(rating, opponentRating))
	return min(max(rating+int(math.Round(change)), MinRating), MaxRating)
}

// ExpectedScore is E = 1 / (1 + 10^((opponent - rating) / 400)).
func ExpectedScore(rating, opponentRating int) float64 {
	exponent := float64(opponentRating-rating) / 400.0
	return 1.0 / (1.0 + math.Pow(10, exponent))
}

func KFactor(gamesPlayed int) int {
	switch {
	case gamesPlayed < 30:
		return KFactorNewbie
	case gamesPlayed < 100:
		return KFactorActive
	default:
		return KFactorExpert
	}
}

// PerformanceGap estimates the rating difference implied by a score over
// a series of games, from the first side's point of view.
func PerformanceGap(wins, draws, losses int) float64 {
	games := wins + draws + losses
	if games == 0 {
		return 0
	}
	score := (float64(wins) + 0.5*float64(draws)) / float64(games)
	if score <= 0 {
		return -MaxPerformanceGap
	}
	if score >= 1 {
		return MaxPerformanceGap
	}
	gap := -400 * math.Log10(1/score-1)
	return math.Max(-MaxPerformanceGap, math.Min(MaxPerformanceGap, gap))
}

// ResultsFor converts a winner to results for (player one, player two).
func ResultsFor(winner game.Cell) (GameResult, GameResult) {
	switch winner {
	case game.PlayerOne:
		return Win, Loss
	case game.PlayerTwo:
		return Loss, Win
	default:
		return Draw, Draw
	}
}

// Table tracks two ratings across a series of games.
type Table struct {
	A, B  int
	Games int
}

func NewTable() *Table {
	return &Table{A: InitialRating, B: InitialRating}
}

// Record rates one game with result from A's point of view. Both sides
// move from their pre-game ratings.
func (t *Table) Record(result GameResult) {
	a, b := t.A, t.B
	t.A = NewRating(a, b, result, t.Games)
	t.B = NewRating(b, a, Win-result, t.Games)
	t.Games++
}
