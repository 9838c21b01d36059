package logsink

import (
	"fmt"
	"os"
	"runtime"
	"time"
)

// handleHeartbeat processes a heartbeat timer tick. Runs on the processor
// goroutine.
func (l *Logger) handleHeartbeat() {
	cfg := l.getConfig()

	if cfg.HeartbeatLevel >= 1 {
		l.logProcHeartbeat()
	}
	if cfg.HeartbeatLevel >= 2 {
		l.logDiskHeartbeat()
	}
	if cfg.HeartbeatLevel >= 3 {
		l.logSysHeartbeat()
	}
}

// logProcHeartbeat logs process/logger statistics heartbeat
func (l *Logger) logProcHeartbeat() {
	processed := l.state.TotalLogsProcessed.Load()
	dropped := l.state.TotalDroppedLogs.Load()
	sequence := l.state.HeartbeatSequence.Add(1)

	startTimeVal := l.state.LoggerStartTime.Load()
	var uptimeHours float64 = 0
	if startTime, ok := startTimeVal.(time.Time); ok && !startTime.IsZero() {
		uptimeHours = time.Since(startTime).Hours()
	}

	procArgs := []any{
		"type", "proc",
		"sequence", sequence,
		"uptime_hours", fmt.Sprintf("%.2f", uptimeHours),
		"processed_logs", processed,
		"dropped_logs", dropped,
	}

	l.writeHeartbeatRecord(LevelProc, procArgs)
}

// logDiskHeartbeat logs disk/file statistics heartbeat
func (l *Logger) logDiskHeartbeat() {
	sequence := l.state.HeartbeatSequence.Load()
	rotations := l.state.TotalRotations.Load()
	compressions := l.state.TotalCompressions.Load()
	deletions := l.state.TotalDeletions.Load()

	cfg := l.getConfig()
	currentSizeMB := float64(l.state.CurrentSize.Load()) / (1024 * 1024)
	totalSizeMB := float64(-1.0) // Default error value
	fileCount := -1              // Default error value

	dirSize, err := l.getLogDirSize()
	if err == nil {
		totalSizeMB = float64(dirSize) / (1024 * 1024)
	} else {
		l.internalLog("warning - heartbeat failed to get dir size: %v\n", err)
	}

	count, err := l.getLogFileCount()
	if err == nil {
		fileCount = count
	} else {
		l.internalLog("warning - heartbeat failed to get file count: %v\n", err)
	}

	diskArgs := []any{
		"type", "disk",
		"sequence", sequence,
		"rotated_files", rotations,
		"compressed_files", compressions,
		"deleted_files", deletions,
		"total_log_size_mb", fmt.Sprintf("%.2f", totalSizeMB),
		"log_file_count", fileCount,
		"current_file_size_mb", fmt.Sprintf("%.2f", currentSizeMB),
		"disk_status_ok", l.state.DiskStatusOK.Load(),
	}

	freeSpace, err := l.getDiskFreeSpace(cfg.Directory)
	if err == nil {
		freeSpaceMB := float64(freeSpace) / (1024 * 1024)
		diskArgs = append(diskArgs, "disk_free_mb", fmt.Sprintf("%.2f", freeSpaceMB))
	}

	l.writeHeartbeatRecord(LevelDisk, diskArgs)
}

// logSysHeartbeat logs system/runtime statistics heartbeat
func (l *Logger) logSysHeartbeat() {
	sequence := l.state.HeartbeatSequence.Load()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sysArgs := []any{
		"type", "sys",
		"sequence", sequence,
		"alloc_mb", fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1024*1024)),
		"sys_mb", fmt.Sprintf("%.2f", float64(memStats.Sys)/(1024*1024)),
		"num_gc", memStats.NumGC,
		"num_goroutine", runtime.NumGoroutine(),
	}

	l.writeHeartbeatRecord(LevelSys, sysArgs)
}

// writeHeartbeatRecord handles the common logic for writing a heartbeat
// record. Heartbeats bypass the record channel since they already execute on
// the processor goroutine.
func (l *Logger) writeHeartbeatRecord(level int64, args []any) {
	if l.state.LoggerDisabled.Load() || l.state.ShutdownCalled.Load() {
		return
	}

	cfg := l.getConfig()
	if !cfg.EnableFile {
		return
	}
	if !l.state.DiskStatusOK.Load() {
		return
	}

	// FlagDefault includes the level so the heartbeat type is visible
	hbData := l.getFileFormatter().Format(FlagDefault, time.Now(), level, "", args)

	cfPtr := l.state.CurrentFile.Load()
	currentLogFile, isFile := cfPtr.(*os.File)
	if !isFile || currentLogFile == nil {
		l.internalLog("error - current file handle is nil during heartbeat\n")
		return
	}

	// Write with a single retry attempt
	n, err := currentLogFile.Write(hbData)
	if err != nil {
		l.internalLog("failed to write heartbeat: %v\n", err)
		l.performDiskCheck(true) // Force disk check on write failure

		n, err = currentLogFile.Write(hbData)
		if err != nil {
			l.internalLog("failed to write heartbeat on retry: %v\n", err)
		} else {
			l.state.CurrentSize.Add(int64(n))
		}
	} else {
		l.state.CurrentSize.Add(int64(n))
	}
}
