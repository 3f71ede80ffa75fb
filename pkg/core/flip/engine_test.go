package flip

import (
	stderrors "errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
)

func crosses(a, b poly.Edge) bool {
	return (a.L < b.L && b.L < a.R && a.R < b.R) || (b.L < a.L && a.L < b.R && b.R < a.R)
}

func TestFlip_Square(t *testing.T) {
	e, err := New(poly.New(4, poly.Edge{L: 0, R: 2}), nil)
	require.NoError(t, err)
	before := e.Table()

	got, err := e.Flip(1)
	require.NoError(t, err)
	assert.Equal(t, poly.Edge{L: 1, R: 3}, got)
	assert.Equal(t, []poly.Edge{{L: 1, R: 3}}, e.Dissection().Diagonals)
	require.NoError(t, e.Verify())

	got, err = e.Flip(1)
	require.NoError(t, err)
	assert.Equal(t, poly.Edge{L: 0, R: 2}, got)
	assert.Equal(t, before, e.Table())
}

func TestNew_Table(t *testing.T) {
	// pentagon fan from 0: slots 0=(0,4) 1=(0,2) 2=(0,3), leaves 3..6
	e, err := New(poly.New(5, poly.Edge{L: 0, R: 2}, poly.Edge{L: 0, R: 3}), nil)
	require.NoError(t, err)

	want := []Relation{
		{Left: 2, Right: 6, Parent: NoSlot},
		{Left: 3, Right: 4, Parent: 2},
		{Left: 1, Right: 5, Parent: 0},
		{Left: NoSlot, Right: NoSlot, Parent: 1},
		{Left: NoSlot, Right: NoSlot, Parent: 1},
		{Left: NoSlot, Right: NoSlot, Parent: 2},
		{Left: NoSlot, Right: NoSlot, Parent: 0},
	}
	assert.Equal(t, want, e.Table())
	assert.Equal(t, poly.Edge{L: 2, R: 3}, e.Slot(5))
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 5, e.Sides())
}

func TestFlip_Pentagon(t *testing.T) {
	e, err := New(poly.New(5, poly.Edge{L: 0, R: 2}, poly.Edge{L: 0, R: 3}), nil)
	require.NoError(t, err)

	// (0,2) sits in quadrilateral 0,1,2,3
	got, err := e.Flip(1)
	require.NoError(t, err)
	assert.Equal(t, poly.Edge{L: 1, R: 3}, got)
	require.NoError(t, e.Verify())

	// (0,3) sits in quadrilateral 0,1,3,4
	got, err = e.Flip(2)
	require.NoError(t, err)
	assert.Equal(t, poly.Edge{L: 1, R: 4}, got)
	require.NoError(t, e.Verify())
	assert.True(t, e.Dissection().IsTriangulation())
}

func TestFlip_RandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(99, 1))
	for sides := 4; sides <= 40; sides++ {
		d := poly.Random(rng, sides)
		e, err := New(d, nil)
		require.NoError(t, err)

		for step := 0; step < 200; step++ {
			idx := 1 + rng.IntN(e.Len())
			before := e.Table()
			old := e.Edge(idx)

			next, err := e.Flip(idx)
			require.NoError(t, err)
			require.True(t, crosses(old, next), "sides=%d: %s does not cross %s", sides, old, next)
			require.NoError(t, e.Dissection().Validate(), "sides=%d step=%d", sides, step)
			require.NoError(t, e.Verify(), "sides=%d step=%d", sides, step)
			assert.Equal(t, e.Dissection().ToTree().Serialize(), e.Tree().Serialize())

			changed := 0
			after := e.Table()
			for i := range after {
				if after[i] != before[i] {
					changed++
				}
			}
			require.LessOrEqual(t, changed, 4)
		}
	}
}

func TestFlip_Involution(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for trial := 0; trial < 300; trial++ {
		sides := 4 + rng.IntN(30)
		e, err := New(poly.Random(rng, sides), nil)
		require.NoError(t, err)

		// wander a bit first so the involution is checked on many shapes
		for range rng.IntN(20) {
			_, _ = e.Flip(1 + rng.IntN(e.Len()))
		}

		idx := 1 + rng.IntN(e.Len())
		table := e.Table()
		diagonals := e.Dissection().Diagonals

		_, err = e.Flip(idx)
		require.NoError(t, err)
		_, err = e.Flip(idx)
		require.NoError(t, err)

		assert.Equal(t, table, e.Table())
		assert.Equal(t, diagonals, e.Dissection().Diagonals)
	}
}

func TestFlip_Sink(t *testing.T) {
	var events []Event
	sink := SinkFunc(func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	e, err := New(poly.New(4, poly.Edge{L: 1, R: 3}), sink)
	require.NoError(t, err)

	_, err = e.Flip(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Event{Session: e.ID(), Index: 1, Old: poly.Edge{L: 1, R: 3}, New: poly.Edge{L: 0, R: 2}}, events[0])
	assert.NotEmpty(t, e.ID())
}

func TestFlip_SinkErrorKeepsFlip(t *testing.T) {
	boom := stderrors.New("disk full")
	e, err := New(poly.New(4, poly.Edge{L: 1, R: 3}), SinkFunc(func(Event) error { return boom }))
	require.NoError(t, err)

	got, err := e.Flip(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, poly.Edge{L: 0, R: 2}, got)
	assert.Equal(t, got, e.Edge(1))
}

func TestFlip_ContractViolations(t *testing.T) {
	e, err := New(poly.New(5, poly.Edge{L: 0, R: 2}, poly.Edge{L: 0, R: 3}), nil)
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = e.Flip(0) }, "closing edge")
	assert.Panics(t, func() { _, _ = e.Flip(3) }, "past the last diagonal")
	assert.Panics(t, func() { _, _ = e.Flip(-1) })

	tri, err := New(poly.New(3), nil)
	require.NoError(t, err)
	assert.Zero(t, tri.Len())
	assert.Panics(t, func() { _, _ = tri.Flip(1) })
}

func TestNew_RejectsInvalid(t *testing.T) {
	_, err := New(poly.New(5, poly.Edge{L: 0, R: 2}, poly.Edge{L: 1, R: 3}), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDissection))
}

func TestNew_CopiesInput(t *testing.T) {
	d := poly.New(4, poly.Edge{L: 0, R: 2})
	e, err := New(d, nil)
	require.NoError(t, err)
	_, _ = e.Flip(1)
	assert.Equal(t, []poly.Edge{{L: 0, R: 2}}, d.Diagonals)
}

func TestIndex(t *testing.T) {
	e, err := New(poly.New(5, poly.Edge{L: 0, R: 2}, poly.Edge{L: 0, R: 3}), nil)
	require.NoError(t, err)
	idx, ok := e.Index(poly.Edge{L: 0, R: 3})
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = e.Index(poly.Edge{L: 0, R: 4})
	assert.False(t, ok)
}
