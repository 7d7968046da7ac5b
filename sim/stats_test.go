package sim

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_EmptyRunHasZeroMakespanAndUsage(t *testing.T) {
	s := NewStats()
	assert.Equal(t, int64(0), s.TotalMakespan())
	assert.Equal(t, 0.0, s.OperationUsagePercent("CUT"))
	assert.Equal(t, 0.0, s.ResourceUsagePercent("ws1"))
	assert.Equal(t, 0.0, s.AverageOperationTime("CUT"))
	assert.Empty(t, s.FlowTable())
}

func TestStats_RecordInterval_MergesCounters(t *testing.T) {
	// GIVEN three intervals on two resources
	s := NewStats()
	s.RecordInterval("CUT", "ws1", "1", 0, 10)
	s.RecordInterval("CUT", "ws1", "2", 10, 20)
	s.RecordInterval("POLISH", "ws2", "1", 10, 25)

	// THEN busy time, flow and makespan reflect all of them
	assert.Equal(t, map[string]int64{"CUT": 20, "POLISH": 15}, s.OperationBusyTime())
	assert.Equal(t, map[string]int64{"ws1": 20, "ws2": 15}, s.ResourceBusyTime())
	assert.Equal(t, map[string]map[string]int{"ws1": {"1": 1, "2": 1}, "ws2": {"1": 1}}, s.FlowTable())
	assert.Equal(t, int64(25), s.TotalMakespan())
	assert.Equal(t, 2, s.OperationExecutions("CUT"))
	assert.InDelta(t, 10.0, s.AverageOperationTime("CUT"), 1e-9)
	assert.InDelta(t, 80.0, s.OperationUsagePercent("CUT"), 1e-9)
	assert.InDelta(t, 60.0, s.ResourceUsagePercent("ws2"), 1e-9)
}

func TestStats_WindowStartsAtFirstStart(t *testing.T) {
	s := NewStats()
	s.RecordInterval("X", "r", "1", 5, 9)
	s.RecordInterval("X", "r", "2", 9, 12)
	start, end := s.Window()
	assert.Equal(t, int64(5), start)
	assert.Equal(t, int64(12), end)
	assert.Equal(t, int64(7), s.TotalMakespan())
}

func TestStats_ConcurrentRecordInterval(t *testing.T) {
	// GIVEN 16 goroutines each recording 50 unit intervals on their own resource
	s := NewStats()
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			res := fmt.Sprintf("ws%d", w)
			for i := 0; i < 50; i++ {
				s.RecordInterval("X", res, "job", int64(i), int64(i+1))
			}
		}(w)
	}
	wg.Wait()

	// THEN no update was lost
	assert.Equal(t, int64(800), s.OperationBusyTime()["X"])
	assert.Equal(t, 800, s.OperationExecutions("X"))
	assert.Equal(t, 50, s.FlowTable()["ws3"]["job"])
	assert.Equal(t, int64(50), s.TotalMakespan())
}

func TestStats_FlowTableIsDeepCopy(t *testing.T) {
	s := NewStats()
	s.RecordInterval("X", "r", "1", 0, 1)
	flow := s.FlowTable()
	flow["r"]["1"] = 99
	assert.Equal(t, 1, s.FlowTable()["r"]["1"])
}
