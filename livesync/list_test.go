package livesync

import (
	"testing"
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/stretchr/testify/assert"
)

func TestList_Load(t *testing.T) {
	conversationID := id.Generate()
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	m1 := testMessage(conversationID, "a", t1)
	m2 := testMessage(conversationID, "b", t1.Add(time.Minute))
	m3 := testMessage(conversationID, "a", t1.Add(2*time.Minute))
	want := []string{m1.ID, m2.ID, m3.ID}

	tests := []struct {
		name string
		in   []types.Message
	}{
		{name: "ascending", in: []types.Message{m1, m2, m3}},
		{name: "descending", in: []types.Message{m3, m2, m1}},
		{name: "shuffled", in: []types.Message{m2, m3, m1}},
		{name: "duplicated", in: []types.Message{m2, m1, m3, m2, m1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList[types.Message](0)
			l.Load(tt.in)
			assert.Equal(t, want, messageIDs(l.Items()))
		})
	}
}

func TestList_Load_keepsLatestDuplicate(t *testing.T) {
	m := testMessage(id.Generate(), "a", time.Now())
	read := m
	read.ReadAt = new(time.Now())

	l := NewList[types.Message](0)
	l.Load([]types.Message{m, read})

	items := l.Items()
	if assert.Len(t, items, 1) {
		assert.True(t, items[0].Read())
	}
}

func TestList_Append(t *testing.T) {
	conversationID := id.Generate()
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	m1 := testMessage(conversationID, "a", t1)
	m2 := testMessage(conversationID, "b", t1.Add(time.Minute))
	m3 := testMessage(conversationID, "a", t1.Add(2*time.Minute))

	t.Run("tail", func(t *testing.T) {
		l := NewList[types.Message](0)
		l.Load([]types.Message{m1, m2})

		assert.True(t, l.Append(m3))
		assert.Equal(t, []string{m1.ID, m2.ID, m3.ID}, messageIDs(l.Items()))
	})

	t.Run("out_of_order", func(t *testing.T) {
		l := NewList[types.Message](0)
		l.Load([]types.Message{m1, m3})

		assert.True(t, l.Append(m2))
		assert.Equal(t, []string{m1.ID, m2.ID, m3.ID}, messageIDs(l.Items()))
	})

	t.Run("merge_by_id", func(t *testing.T) {
		l := NewList[types.Message](0)
		l.Load([]types.Message{m1, m2})

		updated := m1
		updated.ReadAt = new(t1.Add(time.Hour))
		assert.False(t, l.Append(updated))
		assert.False(t, l.Append(m2))

		items := l.Items()
		assert.Equal(t, []string{m1.ID, m2.ID}, messageIDs(items))
		assert.True(t, items[0].Read())
	})

	t.Run("same_time_ties_by_id", func(t *testing.T) {
		a := testMessage(conversationID, "a", t1)
		b := testMessage(conversationID, "a", t1)
		a.ID, b.ID = "a", "b"

		l := NewList[types.Message](0)
		l.Append(b)
		l.Append(a)
		assert.Equal(t, []string{"a", "b"}, messageIDs(l.Items()))
	})
}

func TestList_MaxItems(t *testing.T) {
	conversationID := id.Generate()
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var mm []types.Message
	for i := range 5 {
		mm = append(mm, testMessage(conversationID, "a", t1.Add(time.Duration(i)*time.Minute)))
	}

	l := NewList[types.Message](3)
	l.Load(mm[:4])
	assert.Equal(t, messageIDs(mm[1:4]), messageIDs(l.Items()))

	assert.True(t, l.Append(mm[4]))
	assert.Equal(t, messageIDs(mm[2:5]), messageIDs(l.Items()))

	// older than the whole window: inserted then evicted right away.
	assert.False(t, l.Append(mm[0]))
	assert.Equal(t, messageIDs(mm[2:5]), messageIDs(l.Items()))

	last, ok := l.Last()
	assert.True(t, ok)
	assert.Equal(t, mm[4].ID, last.ID)
	assert.Equal(t, 3, l.Len())

	l.SetMaxItems(2)
	assert.Equal(t, messageIDs(mm[3:5]), messageIDs(l.Items()))
}
