package agent

import "caro-game/internal/game"

// zobristSeed fixes the key table so fingerprints are reproducible across
// engine instances and runs.
const zobristSeed uint64 = 0x9E3779B97F4A7C15

// zobrist holds one random key per cell and player.
type zobrist struct {
	keys [game.Size][game.Size][2]uint64
}

func newZobrist(seed uint64) *zobrist {
	z := &zobrist{}
	next := func() uint64 {
		seed += 0x9E3779B97F4A7C15
		v := seed
		v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
		v = (v ^ (v >> 27)) * 0x94D049BB133111EB
		return v ^ (v >> 31)
	}
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			z.keys[x][y][0] = next()
			z.keys[x][y][1] = next()
		}
	}
	return z
}

func (z *zobrist) key(m game.Move, player game.Cell) uint64 {
	return z.keys[m.X][m.Y][player-1]
}

// hash computes the fingerprint of a whole board.
func (z *zobrist) hash(b *game.Board) uint64 {
	var h uint64
	for x := 0; x < game.Size; x++ {
		for y := 0; y < game.Size; y++ {
			if c := b[x][y]; c != game.Empty {
				h ^= z.keys[x][y][c-1]
			}
		}
	}
	return h
}

// position pairs a board with its incrementally maintained fingerprint.
// Every place must be matched by an undo of the same move.
type position struct {
	board *game.Board
	hash  uint64
	keys  *zobrist
}

func newPosition(b *game.Board, keys *zobrist) *position {
	return &position{board: b, hash: keys.hash(b), keys: keys}
}

func (p *position) place(m game.Move, player game.Cell) {
	p.board.Place(m.X, m.Y, player)
	p.hash ^= p.keys.key(m, player)
}

func (p *position) undo(m game.Move, player game.Cell) {
	p.board.Remove(m.X, m.Y)
	p.hash ^= p.keys.key(m, player)
}
