package admission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueEnqueueAndDrainFIFO(t *testing.T) {
	q := NewQueue(10)
	var order []string
	require.True(t, q.Enqueue("a", func() { order = append(order, "a") }))
	require.True(t, q.Enqueue("b", func() { order = append(order, "b") }))
	require.True(t, q.Enqueue("c", func() { order = append(order, "c") }))

	q.Drain(2)
	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, 1, q.Len())

	q.Drain(10)
	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Equal(t, 0, q.Len())
}

func TestQueueDedupesByIP(t *testing.T) {
	q := NewQueue(10)
	calls := 0
	q.Enqueue("a", func() { calls++ })
	q.Enqueue("a", func() { calls++ })
	require.Equal(t, 1, q.Len())

	q.Drain(10)
	require.Equal(t, 1, calls)
}

func TestQueueRejectsWhenFull(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.Enqueue("a", func() {}))
	require.False(t, q.Enqueue("b", func() {}))
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue(10)
	q.Enqueue("a", func() {})
	q.Remove("a")
	require.Equal(t, 0, q.Len())
}
