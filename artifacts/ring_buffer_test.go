package artifacts_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/e2esuite/artifacts"
)

func TestRingBuffer_Basic(t *testing.T) {
	rb := artifacts.NewRingBuffer[string](3)

	assert.Equal(t, uint64(0), rb.Size())
	assert.Equal(t, uint64(3), rb.Capacity())
	assert.Empty(t, rb.GetRecords(3))

	rb.Add("data1")
	assert.Equal(t, uint64(1), rb.Size())

	records := rb.GetRecords(1)
	assert.Len(t, records, 1)
	assert.Equal(t, "data1", records[0])

	rb.Add("data2")
	rb.Add("data3")

	// GetRecords should return all records in correct order (newest last)
	records = rb.GetRecords(3)
	assert.Equal(t, []string{"data1", "data2", "data3"}, records)
	assert.Equal(t, uint64(0), rb.Dropped())
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := artifacts.NewRingBuffer[string](3)

	rb.Add("data1")
	rb.Add("data2")
	rb.Add("data3")
	rb.Add("data4")

	assert.Equal(t, uint64(3), rb.Size())
	assert.Equal(t, []string{"data2", "data3", "data4"}, rb.GetRecords(3))
	assert.Equal(t, uint64(1), rb.Dropped())

	rb.Add("data5")
	rb.Add("data6")

	assert.Equal(t, []string{"data4", "data5", "data6"}, rb.GetRecords(3))
	assert.Equal(t, []string{"data5", "data6"}, rb.GetRecords(2))
	assert.Equal(t, uint64(3), rb.Dropped())
}

func TestRingBuffer_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		artifacts.NewRingBuffer[int](0)
	})
}

func TestRingBuffer_Concurrent(t *testing.T) {
	rb := artifacts.NewRingBuffer[int](50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rb.Add(n*100 + j)
				_ = rb.GetRecords(10)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(50), rb.Size())
	assert.Equal(t, uint64(950), rb.Dropped())
}
