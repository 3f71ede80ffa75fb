package dyck

import (
	"strconv"
	"strings"

	"github.com/matzehuels/dissect/pkg/errors"
)

// Step is one token of a path: the number of children of the node it stands for.
type Step int

// Close is the step contributed by a leaf.
const Close Step = 0

// Open returns the step contributed by an internal node with k children.
func Open(k int) Step {
	errors.Contract(k > 0, "dyck.Open", "an open step needs at least one child, got %d", k)
	return Step(k)
}

// IsOpen reports whether s stands for an internal node.
func (s Step) IsOpen() bool { return s > 0 }

// Weight is the contribution of s to the running sum: k-1 for k children.
func (s Step) Weight() int { return int(s) - 1 }

// Path is a sequence of steps in pre-order.
type Path []Step

// String returns the text form of p: steps as integers separated by spaces.
func (p Path) String() string {
	var b strings.Builder
	b.Grow(2 * len(p))
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(s)))
	}
	return b.String()
}

// Counts returns the number of open and close steps in p.
func (p Path) Counts() (opens, closes int) {
	for _, s := range p {
		if s.IsOpen() {
			opens++
		} else {
			closes++
		}
	}
	return opens, closes
}

// Parse reads the text form of a path. It checks only the token syntax; use
// IsValid or Decode to check the path itself.
func Parse(s string) (Path, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty path")
	}
	p := make(Path, len(fields))
	for i, f := range fields {
		k, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "step %d: %q is not a number", i, f)
		}
		if k < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "step %d: negative child count %d", i, k)
		}
		p[i] = Step(k)
	}
	return p, nil
}
