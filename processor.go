package logsink

import (
	"os"
	"time"
)

// processLogs is the main log processing loop running in a separate goroutine.
// It is the single consumer of the record channel and the only goroutine that
// touches the active file, so the size check, rotation, and append for a
// record are never interleaved with another record's.
func (l *Logger) processLogs(ch <-chan logRecord) {
	l.state.ProcessorExited.Store(false)      // Mark processor as running
	defer l.state.ProcessorExited.Store(true) // Ensure flag is set on exit

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	// Perform an initial disk check on startup
	l.performDiskCheck(true)

	// Send initial heartbeats immediately instead of waiting for first tick
	cfg := l.getConfig()
	if cfg.HeartbeatLevel > 0 {
		l.handleHeartbeat()
	}

	var bytesSinceLastCheck int64 = 0

	for {
		select {
		case record, ok := <-ch:
			if !ok {
				// Channel closed: drain is done, perform final sync and exit
				l.performSync()
				return
			}

			bytesWritten := l.processLogRecord(record)
			if bytesWritten > 0 {
				bytesSinceLastCheck += bytesWritten

				// Reactive check when a burst wrote enough to matter
				if bytesSinceLastCheck > reactiveCheckThresholdBytes {
					if l.performDiskCheck(false) {
						bytesSinceLastCheck = 0
					}
				}
			}

		case <-timers.flushTicker.C:
			l.handleFlushTick()

		case <-timers.diskCheckTicker.C:
			if l.performDiskCheck(true) {
				bytesSinceLastCheck = 0
			}

		case confirmChan := <-l.state.flushRequestChan:
			l.handleFlushRequest(confirmChan)

		case <-timers.retentionChan:
			l.handleRetentionCheck()

		case <-timers.heartbeatChan:
			l.handleHeartbeat()
		}
	}
}

// processLogRecord handles an individual log record, returning bytes written
// to the file sink. The console write is best effort and never blocks the
// file path; a failed console write drops silently.
func (l *Logger) processLogRecord(record logRecord) int64 {
	cfg := l.getConfig()

	if cfg.EnableConsole {
		data := l.getConsoleFormatter().Console(
			record.Flags,
			record.TimeStamp,
			record.Level,
			record.Caller,
			record.Args,
		)
		if swPtr := l.state.ConsoleWriter.Load(); swPtr != nil {
			if sw, ok := swPtr.(*sink); ok && sw.w != nil {
				_, _ = sw.w.Write(data)
			}
		}
	}

	if !cfg.EnableFile {
		l.state.TotalLogsProcessed.Add(1)
		return 0
	}

	if !l.state.DiskStatusOK.Load() {
		l.state.DroppedLogs.Add(1)
		l.state.TotalDroppedLogs.Add(1)
		return 0 // Skip file write if disk known to be unavailable
	}

	data := l.getFileFormatter().Format(
		record.Flags,
		record.TimeStamp,
		record.Level,
		record.Caller,
		record.Args,
	)
	dataLen := int64(len(data))

	// Check for rotation before the append so no file exceeds the cap
	currentFileSize := l.state.CurrentSize.Load()
	estimatedSize := currentFileSize + dataLen

	if cfg.MaxSizeMB > 0 && estimatedSize > cfg.MaxSizeMB*1024*1024 {
		if err := l.rotateLogFile(); err != nil {
			// Keep logging over keep rotating: the append below still goes
			// to whatever file handle survives.
			l.internalLog("failed to rotate log file: %v\n", err)
		}
	}

	cfPtr := l.state.CurrentFile.Load()
	if currentLogFile, isFile := cfPtr.(*os.File); isFile && currentLogFile != nil {
		n, err := currentLogFile.Write(data)
		if err != nil {
			l.internalLog("failed to write to log file: %v\n", err)
			l.state.DroppedLogs.Add(1)
			l.state.TotalDroppedLogs.Add(1)
			l.performDiskCheck(true) // Force check if write fails
			return 0
		}
		l.state.CurrentSize.Add(int64(n))
		l.state.TotalLogsProcessed.Add(1)
		return int64(n)
	}

	l.state.DroppedLogs.Add(1) // File pointer somehow nil
	l.state.TotalDroppedLogs.Add(1)
	return 0
}

// handleFlushTick handles the periodic flush timer tick
func (l *Logger) handleFlushTick() {
	if l.getConfig().EnablePeriodicSync {
		l.performSync()
	}
}

// handleFlushRequest handles an explicit flush request
func (l *Logger) handleFlushRequest(confirmChan chan struct{}) {
	l.performSync()
	close(confirmChan) // Signal completion back to the Flush caller
}

// handleRetentionCheck performs archive retention check and cleanup
func (l *Logger) handleRetentionCheck() {
	cfg := l.getConfig()
	retentionDur := time.Duration(cfg.RetentionDays * 24 * float64(time.Hour))

	if retentionDur > 0 {
		etPtr := l.state.EarliestFileTime.Load()
		if earliest, ok := etPtr.(time.Time); ok && !earliest.IsZero() {
			if time.Since(earliest) > retentionDur {
				if err := l.cleanExpiredLogs(earliest); err == nil {
					l.updateEarliestFileTime()
				} else {
					l.internalLog("failed to clean expired logs: %v\n", err)
				}
			}
		} else if !ok || earliest.IsZero() {
			l.updateEarliestFileTime()
		}
	}
}
