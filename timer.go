package logsink

import (
	"time"
)

// setupProcessingTimers creates and configures all timers for the processor.
// Config values are captured once here; changes that affect them require a
// processor restart (see configRequiresRestart).
func (l *Logger) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}
	cfg := l.getConfig()

	flushInterval := cfg.FlushIntervalMs
	if flushInterval <= 0 {
		flushInterval = 100
	}
	timers.flushTicker = time.NewTicker(time.Duration(flushInterval) * time.Millisecond)

	timers.retentionChan = l.setupRetentionTimer(timers)
	timers.diskCheckTicker = l.setupDiskCheckTimer()
	timers.heartbeatChan = l.setupHeartbeatTimer(timers)

	return timers
}

// closeProcessingTimers stops all active timers
func (l *Logger) closeProcessingTimers(timers *TimerSet) {
	timers.flushTicker.Stop()
	if timers.diskCheckTicker != nil {
		timers.diskCheckTicker.Stop()
	}
	if timers.retentionTicker != nil {
		timers.retentionTicker.Stop()
	}
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// setupRetentionTimer configures the retention check timer if retention is enabled
func (l *Logger) setupRetentionTimer(timers *TimerSet) <-chan time.Time {
	cfg := l.getConfig()
	retentionDur := time.Duration(cfg.RetentionDays * 24 * float64(time.Hour))
	retentionCheckInterval := time.Duration(cfg.RetentionCheckMins * float64(time.Minute))

	if retentionDur > 0 && retentionCheckInterval > 0 {
		timers.retentionTicker = time.NewTicker(retentionCheckInterval)
		l.updateEarliestFileTime() // Initial scan
		return timers.retentionTicker.C
	}
	return nil
}

// setupDiskCheckTimer configures the disk check timer
func (l *Logger) setupDiskCheckTimer() *time.Ticker {
	cfg := l.getConfig()
	diskCheckIntervalMs := cfg.DiskCheckIntervalMs
	if diskCheckIntervalMs <= 0 {
		diskCheckIntervalMs = 5000
	}
	return time.NewTicker(time.Duration(diskCheckIntervalMs) * time.Millisecond)
}

// setupHeartbeatTimer configures the heartbeat timer if heartbeats are enabled
func (l *Logger) setupHeartbeatTimer(timers *TimerSet) <-chan time.Time {
	cfg := l.getConfig()
	if cfg.HeartbeatLevel > 0 {
		intervalS := cfg.HeartbeatIntervalS
		if intervalS <= 0 {
			intervalS = 60
		}
		timers.heartbeatTicker = time.NewTicker(time.Duration(intervalS) * time.Second)
		return timers.heartbeatTicker.C
	}
	return nil
}
