package errors

// Bounds for user supplied sizes. They protect the CLI and the HTTP API from
// requests that would allocate unbounded memory; the core packages accept any
// size that satisfies their own preconditions.
const (
	MaxArity  = 1000
	MaxLength = 10_000_000
	MaxSides  = 1_000_000
)

// ValidateArity checks a branching factor supplied by a user.
func ValidateArity(r int) error {
	if r < 2 {
		return New(ErrCodeInvalidInput, "arity must be at least 2, got %d", r)
	}
	if r > MaxArity {
		return New(ErrCodeInvalidInput, "arity too large (max %d)", MaxArity)
	}
	return nil
}

// ValidatePathLength checks that length is a valid size for an r-ary path,
// i.e. length = r*n + 1 for some n >= 0.
func ValidatePathLength(r, length int) error {
	if err := ValidateArity(r); err != nil {
		return err
	}
	if length < 1 {
		return New(ErrCodeInvalidInput, "path length must be positive, got %d", length)
	}
	if length > MaxLength {
		return New(ErrCodeInvalidInput, "path length too large (max %d)", MaxLength)
	}
	if (length-1)%r != 0 {
		return New(ErrCodeInvalidInput, "no %d-ary path has length %d (need length = %d*n+1)", r, length, r)
	}
	return nil
}

// ValidateInternal checks a requested internal node count.
func ValidateInternal(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "internal node count cannot be negative, got %d", n)
	}
	if n > MaxLength {
		return New(ErrCodeInvalidInput, "internal node count too large (max %d)", MaxLength)
	}
	return nil
}

// ValidateSides checks a polygon size supplied by a user.
func ValidateSides(sides int) error {
	if sides < 3 {
		return New(ErrCodeInvalidInput, "a polygon needs at least 3 sides, got %d", sides)
	}
	if sides > MaxSides {
		return New(ErrCodeInvalidInput, "too many sides (max %d)", MaxSides)
	}
	return nil
}

// ValidateFlipIndex checks that idx addresses a flippable diagonal of a
// triangulated polygon with the given number of sides.
func ValidateFlipIndex(idx, sides int) error {
	if idx < 1 || idx > sides-3 {
		if sides <= 3 {
			return New(ErrCodeInvalidInput, "a triangle has no diagonals to flip")
		}
		return New(ErrCodeInvalidInput, "diagonal index must be in [1, %d], got %d", sides-3, idx)
	}
	return nil
}
