package pinger

import (
	"sync"
	"time"
)

// Stats accumulates ping results for one component.
type Stats struct {
	mu           sync.RWMutex
	lastRun      time.Time
	lastLatency  time.Duration
	lastError    error
	lastErrorAt  time.Time
	successCount int
	errorCount   int
}

// Statistics is a point-in-time copy of Stats, with the probe impact applied.
type Statistics struct {
	IsReady      bool
	IsHealthy    bool
	LastRun      time.Time
	LastLatency  time.Duration
	LastError    error
	LastErrorAt  time.Time
	SuccessCount int
	ErrorCount   int
}

func (st *Stats) record(at time.Time, latency time.Duration, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.lastRun = at
	st.lastLatency = latency
	st.lastError = err

	if err != nil {
		st.lastErrorAt = at
		st.errorCount++

		return
	}

	st.successCount++
}

func (st *Stats) snapshot(info *pingerInfo) *Statistics {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return &Statistics{
		IsReady:      !info.readyCritical || st.lastError == nil,
		IsHealthy:    !info.healthCritical || st.lastError == nil,
		LastRun:      st.lastRun,
		LastLatency:  st.lastLatency,
		LastError:    st.lastError,
		LastErrorAt:  st.lastErrorAt,
		SuccessCount: st.successCount,
		ErrorCount:   st.errorCount,
	}
}
