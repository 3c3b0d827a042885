package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDeletingDoesNotMutateInput(t *testing.T) {
	in := sample()
	out := SetDeleting(in, 2, true)

	assert.False(t, in[1].IsDeleting)
	assert.True(t, out[1].IsDeleting)
	assert.False(t, out[0].IsDeleting)

	back := SetDeleting(out, 2, false)
	assert.Equal(t, in, back)
}

func TestSetUpdatingMany(t *testing.T) {
	out := SetUpdatingMany(sample(), map[int]bool{1: true, 3: true}, true)
	var flagged []int
	for _, td := range out {
		if td.IsUpdating {
			flagged = append(flagged, td.ID)
		}
	}
	assert.Equal(t, []int{1, 3}, flagged)
}

func TestReplaceClearsFlags(t *testing.T) {
	in := SetUpdating(sample(), 3, true)
	out := Replace(in, Todo{ID: 3, Title: "c2", Completed: true, IsUpdating: true})

	got, ok := Find(out, 3)
	assert.True(t, ok)
	assert.Equal(t, "c2", got.Title)
	assert.True(t, got.Completed)
	assert.False(t, got.IsUpdating)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(out))
}

func TestReplaceMissingIsNoop(t *testing.T) {
	assert.Equal(t, sample(), Replace(sample(), Todo{ID: 42}))
}

func TestRemoveAndRemoveMany(t *testing.T) {
	assert.Equal(t, []int{1, 3, 4}, ids(Remove(sample(), 2)))
	assert.Equal(t, []int{1, 3}, ids(RemoveMany(sample(), map[int]bool{2: true, 4: true})))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(Remove(sample(), 99)))
}

func TestAppendDropsPlaceholder(t *testing.T) {
	in := append(sample(), Todo{ID: TempID, Title: "temp"})
	out := Append(in, Todo{ID: 10, Title: "new"})
	assert.Equal(t, []int{1, 2, 3, 4, 10}, ids(out))
}

func TestFind(t *testing.T) {
	_, ok := Find(sample(), 7)
	assert.False(t, ok)
	got, ok := Find(sample(), 4)
	assert.True(t, ok)
	assert.Equal(t, "d", got.Title)
}
