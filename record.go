package logsink

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// getCurrentLogChannel safely retrieves the current log channel
func (l *Logger) getCurrentLogChannel() chan logRecord {
	chVal := l.state.ActiveLogChannel.Load()
	return chVal.(chan logRecord)
}

// getFlags from config
func (l *Logger) getFlags() int64 {
	var flags int64 = 0
	cfg := l.getConfig()

	if cfg.ShowLevel {
		flags |= FlagShowLevel
	}
	if cfg.ShowTimestamp {
		flags |= FlagShowTimestamp
	}
	return flags
}

// sendLogRecord handles safe sending to the active channel.
// A full buffer drops the record rather than blocking the caller; drops are
// counted and reported by a follow-up record once the channel drains.
func (l *Logger) sendLogRecord(record logRecord) {
	defer func() {
		if r := recover(); r != nil { // Catch panic on send to closed channel
			l.handleFailedSend(record)
		}
	}()

	if l.state.ShutdownCalled.Load() || l.state.LoggerDisabled.Load() {
		l.handleFailedSend(record)
		return
	}

	ch := l.getCurrentLogChannel()

	// Non-blocking send
	select {
	case ch <- record:
		if record.unreportedDrops == 0 {
			droppedCount := l.state.DroppedLogs.Swap(0)

			if droppedCount > 0 {
				dropRecord := logRecord{
					Flags:           FlagDefault,
					TimeStamp:       time.Now(),
					Level:           LevelError,
					Args:            []any{"Logs were dropped", "dropped_count", droppedCount},
					unreportedDrops: droppedCount, // Carry the count for recovery
				}
				// No success check is required, count is restored if it fails
				l.sendLogRecord(dropRecord)
			}
		}
	default:
		l.handleFailedSend(record)
	}
}

// handleFailedSend restores or increments drop counter
func (l *Logger) handleFailedSend(record logRecord) {
	// For regular record, add 1 to dropped log count
	// For drop report, restore the count
	amountToAdd := uint64(1)
	if record.unreportedDrops > 0 {
		amountToAdd = record.unreportedDrops
	}
	l.state.DroppedLogs.Add(amountToAdd)
	if record.unreportedDrops == 0 {
		// Lifetime counter only moves for fresh drops, not restored reports
		l.state.TotalDroppedLogs.Add(1)
	}
}

// log handles the core logging logic
func (l *Logger) log(flags int64, level int64, depth int64, args ...any) {
	if !l.state.IsInitialized.Load() {
		return
	}

	cfg := l.getConfig()
	if level < cfg.Level {
		return
	}

	var caller string
	if depth > 0 {
		// Every public entry point (Logger methods and the package-level
		// functions in default.go) must sit exactly one frame above log for
		// this to hold.
		const skipFrames = 3 // caller -> exported func -> log -> callsite
		caller = callsite(depth, skipFrames)
	}

	record := logRecord{
		Flags:           flags,
		TimeStamp:       time.Now(),
		Level:           level,
		Caller:          caller,
		Args:            args,
		unreportedDrops: 0, // 0 for regular logs
	}
	l.sendLogRecord(record)
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "logsink: ") {
		format = "logsink: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
