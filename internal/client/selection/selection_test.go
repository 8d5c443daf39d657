package selection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Toggle(t *testing.T) {
	var s Set

	assert.True(t, s.Toggle(1))
	assert.True(t, s.Toggle(2))
	assert.Equal(t, []int64{1, 2}, s.IDs())

	assert.False(t, s.Toggle(1))
	assert.Equal(t, []int64{2}, s.IDs())
	assert.False(t, s.Contains(1))
	assert.True(t, s.Contains(2))
}

func TestSet_ReplaceDeduplicatesAndKeepsOrder(t *testing.T) {
	s := New(9, 3)
	s.Replace([]int64{4, 1, 4, 2})

	assert.Equal(t, []int64{4, 1, 2}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestSet_RemoveLeavesOthersUntouched(t *testing.T) {
	s := New(1, 2, 3)

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, []int64{1, 3}, s.IDs())
}

func TestSet_ContainsAll(t *testing.T) {
	s := New(1, 2, 3)

	assert.True(t, s.ContainsAll([]int64{1, 3}))
	assert.False(t, s.ContainsAll([]int64{1, 4}))
	assert.True(t, s.ContainsAll(nil))
}

func TestSet_IDsIsACopy(t *testing.T) {
	s := New(1, 2)
	ids := s.IDs()
	ids[0] = 99

	assert.Equal(t, []int64{1, 2}, s.IDs())
}

func TestSet_Clear(t *testing.T) {
	s := New(1, 2)
	s.Clear()

	assert.Zero(t, s.Len())
	assert.Empty(t, s.IDs())
	s.Add(5)
	assert.Equal(t, []int64{5}, s.IDs())
}

func TestSet_ConcurrentUse(t *testing.T) {
	var s Set
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Add(id)
			_ = s.Contains(id)
			_ = s.IDs()
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
