package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGetMemoizes(t *testing.T) {
	var slot Slot[[]string]
	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := slot.Get(context.Background(), fetch)
	require.NoError(t, err)
	second, err := slot.Get(context.Background(), fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, &first[0], &second[0])
}

func TestSlotInvalidateForcesRefetch(t *testing.T) {
	var slot Slot[int]
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := slot.Get(context.Background(), fetch)
	assert.Equal(t, 1, v)

	slot.Invalidate()
	_, ok := slot.Load()
	assert.False(t, ok)

	v, _ = slot.Get(context.Background(), fetch)
	assert.Equal(t, 2, v)
	v, _ = slot.Get(context.Background(), fetch)
	assert.Equal(t, 2, v)
}

func TestSlotFailedFetchIsNotCached(t *testing.T) {
	var slot Slot[int]
	boom := errors.New("boom")

	_, err := slot.Get(context.Background(), func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := slot.Load()
	assert.False(t, ok)

	v, err := slot.Get(context.Background(), func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

type stampedValue struct {
	id    int64
	check int64
}

func TestSlotConcurrentGetInvalidateStore(t *testing.T) {
	var slot Slot[stampedValue]
	var fetched atomic.Int64
	fetch := func(context.Context) (stampedValue, error) {
		id := fetched.Add(1)
		return stampedValue{id: id, check: id * 7}, nil
	}
	stored := stampedValue{id: -1, check: -7}

	var wg sync.WaitGroup
	results := make(chan stampedValue, 8*200)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch {
				case g == 0 && i%3 == 0:
					slot.Invalidate()
				case g == 1 && i%5 == 0:
					slot.Store(stored)
				}
				v, err := slot.Get(context.Background(), fetch)
				if err != nil {
					t.Error(err)
					return
				}
				results <- v
			}
		}(g)
	}
	wg.Wait()
	close(results)

	total := fetched.Load()
	for v := range results {
		assert.Equal(t, v.id*7, v.check, "torn value %+v", v)
		if v.id != stored.id {
			assert.True(t, v.id >= 1 && v.id <= total, "value %d was never fetched", v.id)
		}
	}
}
