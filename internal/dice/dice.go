// Package dice rolls the three-faced movement dice.
package dice

import (
	"fmt"
	"math/rand"
	"strings"
)

// DefaultCount is the number of dice thrown per roll.
const DefaultCount = 6

// Face is the symbol shown by one die.
type Face int

const (
	FacePip   Face = iota // grants one hop
	FaceFox               // wakes one fox
	FaceSnake             // wakes one snake
)

// String returns a human-readable name for the face.
func (f Face) String() string {
	switch f {
	case FacePip:
		return "pip"
	case FaceFox:
		return "fox"
	case FaceSnake:
		return "snake"
	default:
		return "unknown"
	}
}

// Mode is a named difficulty preset.
type Mode string

const (
	ModeEasy   Mode = "easy"
	ModeMedium Mode = "medium"
	ModeHard   Mode = "hard"
)

// Modes lists every preset in ascending difficulty.
func Modes() []Mode {
	return []Mode{ModeEasy, ModeMedium, ModeHard}
}

// ParseMode resolves a preset name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeEasy, ModeMedium, ModeHard:
		return m, nil
	case "":
		return ModeMedium, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
	}
}

// Weights are the relative probabilities of each face.
type Weights struct {
	Pip   float64 `yaml:"pip"`
	Fox   float64 `yaml:"fox"`
	Snake float64 `yaml:"snake"`
}

// WeightsFor returns the built-in face probabilities of a preset.
// Unknown modes fall back to medium.
func WeightsFor(m Mode) Weights {
	switch m {
	case ModeEasy:
		return Weights{Pip: 1.0 / 2, Fox: 1.0 / 4, Snake: 1.0 / 4}
	case ModeHard:
		return Weights{Pip: 1.0 / 6, Fox: 5.0 / 12, Snake: 5.0 / 12}
	default:
		return Weights{Pip: 1.0 / 3, Fox: 1.0 / 3, Snake: 1.0 / 3}
	}
}

// Total returns the sum of the weights.
func (w Weights) Total() float64 {
	return w.Pip + w.Fox + w.Snake
}

// Outcome is the result of one roll.
type Outcome struct {
	Faces  []Face
	Moves  int // pips
	Foxes  int
	Snakes int
}

// NewOutcome tallies a set of faces.
func NewOutcome(faces ...Face) Outcome {
	o := Outcome{Faces: append([]Face(nil), faces...)}
	for _, f := range faces {
		switch f {
		case FacePip:
			o.Moves++
		case FaceFox:
			o.Foxes++
		case FaceSnake:
			o.Snakes++
		}
	}
	return o
}

// Counts builds an outcome directly from face counts.
func Counts(moves, foxes, snakes int) Outcome {
	faces := make([]Face, 0, moves+foxes+snakes)
	for i := 0; i < moves; i++ {
		faces = append(faces, FacePip)
	}
	for i := 0; i < foxes; i++ {
		faces = append(faces, FaceFox)
	}
	for i := 0; i < snakes; i++ {
		faces = append(faces, FaceSnake)
	}
	return NewOutcome(faces...)
}

// String renders the outcome as "2 pip / 3 fox / 1 snake".
func (o Outcome) String() string {
	return fmt.Sprintf("%d pip / %d fox / %d snake", o.Moves, o.Foxes, o.Snakes)
}

// Roller throws a fixed number of weighted dice.
type Roller struct {
	count   int
	weights Weights
	rng     *rand.Rand
}

// NewRoller creates a roller. A zero count means DefaultCount; weights that
// do not sum to a positive value fall back to the medium preset.
func NewRoller(count int, w Weights, rng *rand.Rand) *Roller {
	if count <= 0 {
		count = DefaultCount
	}
	if w.Total() <= 0 || w.Pip < 0 || w.Fox < 0 || w.Snake < 0 {
		w = WeightsFor(ModeMedium)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Roller{count: count, weights: w, rng: rng}
}

// Count returns the number of dice per roll.
func (r *Roller) Count() int {
	return r.count
}

// Roll throws every die once.
func (r *Roller) Roll() Outcome {
	faces := make([]Face, r.count)
	for i := range faces {
		faces[i] = r.face()
	}
	return NewOutcome(faces...)
}

func (r *Roller) face() Face {
	x := r.rng.Float64() * r.weights.Total()
	switch {
	case x < r.weights.Pip:
		return FacePip
	case x < r.weights.Pip+r.weights.Fox:
		return FaceFox
	default:
		return FaceSnake
	}
}
