package engine

import (
	"time"
)

// TimeManager tracks the wall-clock budget of one search.
type TimeManager struct {
	moveTime  time.Duration // Zero means no limit
	startTime time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search that may run for moveTime.
func (tm *TimeManager) Init(moveTime time.Duration) {
	tm.moveTime = moveTime
	tm.startTime = time.Now()
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// ShouldStop returns true once the budget is used up.
func (tm *TimeManager) ShouldStop() bool {
	return tm.moveTime > 0 && tm.Elapsed() >= tm.moveTime
}

// PastHalf returns true when more than half the budget is gone. A new
// iteration started then is unlikely to finish.
func (tm *TimeManager) PastHalf() bool {
	return tm.moveTime > 0 && tm.Elapsed()*2 >= tm.moveTime
}
