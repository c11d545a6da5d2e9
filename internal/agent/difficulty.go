package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDifficulty reports an unknown or out of range difficulty.
var ErrDifficulty = errors.New("unknown difficulty")

// Difficulty selects the move selection strategy. Higher tiers search
// deeper and cost more time.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Ultimate
)

// Difficulties lists every tier, weakest first.
var Difficulties = []Difficulty{Easy, Normal, Hard, Ultimate}

var difficultyNames = [...]string{"easy", "normal", "hard", "ultimate"}

// Valid reports whether d is one of the four tiers.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Ultimate
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty accepts tier names (case-insensitive, "medium" for Normal)
// and the digits 0 to 3.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "0":
		return Easy, nil
	case "normal", "medium", "1":
		return Normal, nil
	case "hard", "2":
		return Hard, nil
	case "ultimate", "3":
		return Ultimate, nil
	}
	return Easy, fmt.Errorf("%w %q", ErrDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w %d", ErrDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
