package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFifteenItems(t *testing.T) {
	p := New(15, PostsPerPage)

	first := p.Page("1")
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 10, first.Limit)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	second := p.Page("2")
	assert.Equal(t, 10, second.Offset)
	assert.Equal(t, 10, second.Limit)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrevious())
	assert.Equal(t, 2, p.NumPages())
}

func TestClamping(t *testing.T) {
	p := New(15, 10)
	cases := map[string]int{
		"":     1,
		"abc":  1,
		"0":    1,
		"-3":   1,
		"2":    2,
		"3":    2,
		"9999": 2,
	}
	for raw, want := range cases {
		assert.Equal(t, want, p.Page(raw).Number, "raw=%q", raw)
	}
}

func TestEmptyCollection(t *testing.T) {
	p := New(0, 10)
	pg := p.Page("5")
	assert.Equal(t, 1, pg.Number)
	assert.Equal(t, 1, pg.NumPages)
	assert.False(t, pg.HasOther())
	assert.Equal(t, 0, pg.Offset)
}

func TestNavigation(t *testing.T) {
	pg := New(35, 10).PageNumber(2)
	assert.Equal(t, 1, pg.PreviousNumber())
	assert.Equal(t, 3, pg.NextNumber())
	assert.Equal(t, []int{1, 2, 3, 4}, pg.Numbers())

	last := New(35, 10).PageNumber(4)
	assert.Equal(t, 4, last.NextNumber())
	assert.Equal(t, 30, last.Offset)
}
