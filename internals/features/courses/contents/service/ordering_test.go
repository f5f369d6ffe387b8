package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkItems() []Item {
	return []Item{
		{Type: ItemChapter, ID: uuid.New(), Position: 1},
		{Type: ItemQuiz, ID: uuid.New(), Position: 2},
		{Type: ItemChapter, ID: uuid.New(), Position: 3},
	}
}

func positions(items []Item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.Position)
	}
	return out
}

func TestCompactClosesGaps(t *testing.T) {
	items := []Item{
		{Type: ItemChapter, ID: uuid.New(), Position: 5},
		{Type: ItemQuiz, ID: uuid.New(), Position: 2},
		{Type: ItemChapter, ID: uuid.New(), Position: 9},
	}
	assigns := Compact(items)

	assert.Equal(t, []int{1, 2, 3}, positions(items))
	assert.Len(t, assigns, 3)
	assert.Equal(t, ItemQuiz, items[0].Type)
}

func TestCompactNoopWhenContiguous(t *testing.T) {
	items := mkItems()
	assert.Empty(t, Compact(items))
}

func TestCompactBreaksTiesChapterFirst(t *testing.T) {
	q := Item{Type: ItemQuiz, ID: uuid.New(), Position: 2}
	ch := Item{Type: ItemChapter, ID: uuid.New(), Position: 2}
	items := []Item{{Type: ItemChapter, ID: uuid.New(), Position: 1}, q, ch}

	Compact(items)
	assert.Equal(t, ch.ID, items[1].ID)
	assert.Equal(t, q.ID, items[2].ID)
	assert.Equal(t, []int{1, 2, 3}, positions(items))
}

func TestPlanReorderPermutation(t *testing.T) {
	items := mkItems()
	desired := []Ref{items[2].Ref(), items[0].Ref(), items[1].Ref()}

	assigns, err := PlanReorder(items, desired)
	require.NoError(t, err)
	assert.Len(t, assigns, 3)

	out := ApplyAssignments(items, assigns)
	assert.Equal(t, []int{1, 2, 3}, positions(out))
	assert.Equal(t, items[2].ID, out[0].ID)
	assert.Equal(t, items[0].ID, out[1].ID)
	assert.Equal(t, items[1].ID, out[2].ID)
}

func TestPlanReorderOnlyChangedItems(t *testing.T) {
	items := mkItems()
	desired := []Ref{items[0].Ref(), items[2].Ref(), items[1].Ref()}

	assigns, err := PlanReorder(items, desired)
	require.NoError(t, err)
	require.Len(t, assigns, 2)
	assert.Equal(t, items[2].ID, assigns[0].ID)
	assert.Equal(t, 2, assigns[0].Position)
}

func TestPlanReorderRejects(t *testing.T) {
	items := mkItems()

	_, err := PlanReorder(items, []Ref{items[0].Ref(), items[1].Ref()})
	assert.True(t, errors.Is(err, ErrReorderLength))

	_, err = PlanReorder(items, []Ref{items[0].Ref(), items[0].Ref(), items[1].Ref()})
	assert.True(t, errors.Is(err, ErrReorderDuplicate))

	_, err = PlanReorder(items, []Ref{items[0].Ref(), items[1].Ref(), {Type: ItemQuiz, ID: uuid.New()}})
	assert.True(t, errors.Is(err, ErrReorderUnknown))

	// id benar tapi type salah
	wrongType := Ref{Type: ItemQuiz, ID: items[0].ID}
	_, err = PlanReorder(items, []Ref{wrongType, items[1].Ref(), items[2].Ref()})
	assert.True(t, errors.Is(err, ErrReorderUnknown))

	_, err = PlanReorder(items, []Ref{{Type: "lesson", ID: items[0].ID}, items[1].Ref(), items[2].Ref()})
	assert.True(t, errors.Is(err, ErrReorderType))
}

func TestPlanReorderAcceptsUppercaseType(t *testing.T) {
	items := mkItems()
	desired := []Ref{
		{Type: "CHAPTER", ID: items[0].ID},
		{Type: " Quiz ", ID: items[1].ID},
		items[2].Ref(),
	}
	assigns, err := PlanReorder(items, desired)
	require.NoError(t, err)
	assert.Empty(t, assigns)
}
