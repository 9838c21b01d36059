package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"
)

// performSync syncs the current log file
func (l *Logger) performSync() {
	cfg := l.getConfig()
	if !cfg.EnableFile {
		return
	}

	cfPtr := l.state.CurrentFile.Load()
	if cfPtr != nil {
		if currentLogFile, isFile := cfPtr.(*os.File); isFile && currentLogFile != nil {
			if err := currentLogFile.Sync(); err != nil {
				syncErrRecord := logRecord{
					Flags:     FlagDefault,
					TimeStamp: time.Now(),
					Level:     LevelWarn,
					Args:      []any{"Log file sync failed", "file", currentLogFile.Name(), "error", err.Error()},
				}
				l.sendLogRecord(syncErrRecord)
			}
		}
	}
}

// performDiskCheck checks disk space, triggers cleanup if needed, and updates
// status. Returns true if disk is OK, false otherwise.
func (l *Logger) performDiskCheck(forceCleanup bool) bool {
	cfg := l.getConfig()
	if !cfg.EnableFile {
		if !l.state.DiskStatusOK.Load() {
			l.state.DiskStatusOK.Store(true)
			l.state.DiskFullLogged.Store(false)
		}
		return true
	}

	maxTotal := cfg.MaxTotalSizeMB * 1024 * 1024
	minFreeRequired := cfg.MinDiskFreeMB * 1024 * 1024

	if maxTotal <= 0 && minFreeRequired <= 0 {
		if !l.state.DiskStatusOK.Load() {
			l.state.DiskStatusOK.Store(true)
			l.state.DiskFullLogged.Store(false)
		}
		return true
	}

	freeSpace, err := l.getDiskFreeSpace(cfg.Directory)
	if err != nil {
		l.internalLog("warning - failed to check free disk space for '%s': %v\n", cfg.Directory, err)
		l.state.DiskStatusOK.Store(false)
		return false
	}

	needsCleanupCheck := false
	spaceToFree := int64(0)
	if minFreeRequired > 0 && freeSpace < minFreeRequired {
		needsCleanupCheck = true
		spaceToFree = minFreeRequired - freeSpace
	}

	if maxTotal > 0 {
		dirSize, err := l.getLogDirSize()
		if err != nil {
			l.internalLog("warning - failed to check log directory size for '%s': %v\n", cfg.Directory, err)
			l.state.DiskStatusOK.Store(false)
			return false
		}
		if dirSize > maxTotal {
			needsCleanupCheck = true
			amountOver := dirSize - maxTotal
			if amountOver > spaceToFree {
				spaceToFree = amountOver
			}
		}
	}

	if needsCleanupCheck && forceCleanup {
		if err := l.cleanOldLogs(spaceToFree); err != nil {
			if !l.state.DiskFullLogged.Swap(true) {
				diskFullRecord := logRecord{
					Flags: FlagDefault, TimeStamp: time.Now(), Level: LevelError,
					Args: []any{"Log directory full or disk space low, cleanup failed", "error", err.Error()},
				}
				l.sendLogRecord(diskFullRecord)
			}
			l.state.DiskStatusOK.Store(false)
			return false
		}
		// Cleanup succeeded
		l.state.DiskFullLogged.Store(false)
		l.state.DiskStatusOK.Store(true)
		l.updateEarliestFileTime()
		return true
	} else if needsCleanupCheck {
		// Limits exceeded, but not forcing cleanup now
		l.state.DiskStatusOK.Store(false)
		return false
	}

	if !l.state.DiskStatusOK.Load() {
		l.state.DiskStatusOK.Store(true)
		l.state.DiskFullLogged.Store(false)
	}
	return true
}

// getDiskFreeSpace retrieves available disk space for the given path
func (l *Logger) getDiskFreeSpace(path string) (int64, error) {
	var stat syscall.Statfs_t
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmtErrorf("log directory '%s' does not exist for disk check: %w", path, err)
		}
		return 0, fmtErrorf("failed to stat log directory '%s': %w", path, err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, fmtErrorf("failed to get disk stats for '%s': %w", path, err)
	}
	availableBytes := int64(stat.Bavail) * int64(stat.Bsize)
	return availableBytes, nil
}

// activeLogFileName returns the base name of the active log file
func (l *Logger) activeLogFileName() string {
	cfg := l.getConfig()
	if cfg.Extension != "" {
		return cfg.Name + "." + cfg.Extension
	}
	return cfg.Name
}

// isArchiveFile reports whether name is a rotated archive of the active log,
// compressed or not. Archives carry the "<name>_" prefix stamped at rotation
// and either the raw extension or the extension plus the zip suffix.
func (l *Logger) isArchiveFile(name string) bool {
	cfg := l.getConfig()
	if !strings.HasPrefix(name, cfg.Name+"_") {
		return false
	}
	if cfg.Extension == "" {
		return true
	}
	rawSuffix := "." + cfg.Extension
	return strings.HasSuffix(name, rawSuffix) || strings.HasSuffix(name, rawSuffix+zipSuffix)
}

// getLogDirSize calculates total size of the active log file and its archives
func (l *Logger) getLogDirSize() (int64, error) {
	cfg := l.getConfig()
	var size int64
	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmtErrorf("failed to read log directory '%s': %w", cfg.Directory, err)
	}

	activeName := l.activeLogFileName()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() != activeName && !l.isArchiveFile(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		size += info.Size()
	}
	return size, nil
}

// cleanOldLogs removes oldest archives until required space is freed.
// The active log file is never a deletion candidate.
func (l *Logger) cleanOldLogs(required int64) error {
	cfg := l.getConfig()

	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		return fmtErrorf("failed to read log directory '%s' for cleanup: %w", cfg.Directory, err)
	}

	type logFileMeta struct {
		name    string
		modTime time.Time
		size    int64
	}
	var logs []logFileMeta
	for _, entry := range entries {
		if entry.IsDir() || !l.isArchiveFile(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		logs = append(logs, logFileMeta{name: entry.Name(), modTime: info.ModTime(), size: info.Size()})
	}

	if len(logs) == 0 {
		if required > 0 {
			return fmtErrorf("no old logs available to delete in '%s', needed %d bytes", cfg.Directory, required)
		}
		return nil
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].modTime.Before(logs[j].modTime) })

	var freedSpace int64
	for _, lf := range logs {
		if required > 0 && freedSpace >= required {
			break
		}
		filePath := filepath.Join(cfg.Directory, lf.name)
		if err := os.Remove(filePath); err != nil {
			l.internalLog("failed to remove old log file '%s': %v\n", filePath, err)
			continue
		}
		freedSpace += lf.size
		l.state.TotalDeletions.Add(1)
	}

	if required > 0 && freedSpace < required {
		return fmtErrorf("could not free enough space in '%s': freed %d bytes, needed %d bytes",
			cfg.Directory, freedSpace, required)
	}
	return nil
}

// updateEarliestFileTime scans the log directory for the oldest archive.
// Compression preserves the original mtime on the zip, so archive age is
// measured from when the data was written, not when it was compressed.
func (l *Logger) updateEarliestFileTime() {
	cfg := l.getConfig()

	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		l.state.EarliestFileTime.Store(time.Time{})
		return
	}

	var earliest time.Time
	for _, entry := range entries {
		if entry.IsDir() || !l.isArchiveFile(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		if earliest.IsZero() || info.ModTime().Before(earliest) {
			earliest = info.ModTime()
		}
	}
	l.state.EarliestFileTime.Store(earliest)
}

// cleanExpiredLogs removes archives older than the retention period
func (l *Logger) cleanExpiredLogs(oldest time.Time) error {
	cfg := l.getConfig()
	retentionDur := time.Duration(cfg.RetentionDays * 24 * float64(time.Hour))

	if retentionDur <= 0 {
		return nil
	}
	cutoffTime := time.Now().Add(-retentionDur)
	if oldest.IsZero() || !oldest.Before(cutoffTime) {
		return nil
	}

	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		return fmtErrorf("failed to read log directory '%s' for retention cleanup: %w", cfg.Directory, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !l.isArchiveFile(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		if info.ModTime().Before(cutoffTime) {
			filePath := filepath.Join(cfg.Directory, entry.Name())
			if err := os.Remove(filePath); err != nil {
				l.internalLog("failed to remove expired log file '%s': %v\n", filePath, err)
			} else {
				l.state.TotalDeletions.Add(1)
			}
		}
	}

	return nil
}

// generateArchiveLogFileName creates a timestamped filename for an archived
// log during rotation. The nanosecond component keeps names unique when two
// rotations land in the same second.
func (l *Logger) generateArchiveLogFileName(timestamp time.Time) string {
	cfg := l.getConfig()

	tsFormat := timestamp.Format("20060102_150405")
	nano := timestamp.Nanosecond()

	if cfg.Extension != "" {
		return fmt.Sprintf("%s_%s_%d.%s", cfg.Name, tsFormat, nano, cfg.Extension)
	}
	return fmt.Sprintf("%s_%s_%d", cfg.Name, tsFormat, nano)
}

// createNewLogFile opens the active log file at its static path, creating it
// if needed and appending if it already exists.
func (l *Logger) createNewLogFile() (*os.File, error) {
	fullPath := l.getConfig().FilePath()

	file, err := os.OpenFile(fullPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open/create log file '%s': %w", fullPath, err)
	}
	return file, nil
}

// rotateLogFile implements the rename-on-rotate strategy: close the current
// file, rename it to a timestamped archive, reopen the static path, then hand
// the archive to the background compressor. Runs only on the processor
// goroutine.
func (l *Logger) rotateLogFile() error {
	cfg := l.getConfig()

	cfPtr := l.state.CurrentFile.Load()
	currentFile, ok := cfPtr.(*os.File)
	if !ok || currentFile == nil {
		// No usable current file, just open a new one
		newFile, err := l.createNewLogFile()
		if err != nil {
			return fmtErrorf("failed to create log file during rotation: %w", err)
		}
		l.state.CurrentFile.Store(newFile)
		l.state.CurrentSize.Store(0)
		l.state.TotalRotations.Add(1)
		return nil
	}

	if err := currentFile.Sync(); err != nil {
		l.internalLog("failed to sync log file before rotation: %v\n", err)
	}
	if err := currentFile.Close(); err != nil {
		l.internalLog("failed to close log file before rotation: %v\n", err)
		// Continue with rotation anyway
	}

	archiveName := l.generateArchiveLogFileName(time.Now())
	archivePath := filepath.Join(cfg.Directory, archiveName)

	currentPath := cfg.FilePath()
	if err := os.Rename(currentPath, archivePath); err != nil {
		// Rename failed with the file closed. Reopen the static path in
		// append mode so records keep flowing to the uncapped file.
		reopened, reopenErr := l.createNewLogFile()
		if reopenErr != nil {
			l.internalLog("failed to rename log file from '%s' to '%s': %v. file logging disabled.\n",
				currentPath, archivePath, err)
			l.state.LoggerDisabled.Store(true)
			return fmtErrorf("failed to rotate log file, logging is disabled: %w", combineErrors(err, reopenErr))
		}
		l.state.CurrentFile.Store(reopened)
		if fi, statErr := reopened.Stat(); statErr == nil {
			l.state.CurrentSize.Store(fi.Size())
		}
		return fmtErrorf("failed to rename log file from '%s' to '%s': %w", currentPath, archivePath, err)
	}

	newFile, err := l.createNewLogFile()
	if err != nil {
		return fmtErrorf("failed to create new log file after rotation: %w", err)
	}

	l.state.CurrentFile.Store(newFile)
	l.state.CurrentSize.Store(0)
	l.state.TotalRotations.Add(1)

	// Compression happens off the processor goroutine so a slow zip never
	// stalls record processing.
	if cfg.Compression == "zip" {
		l.scheduleCompression(archivePath)
	}

	l.updateEarliestFileTime()

	return nil
}

// getLogFileCount counts the active log file and its archives
func (l *Logger) getLogFileCount() (int, error) {
	cfg := l.getConfig()
	count := 0
	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return -1, fmtErrorf("failed to read log directory '%s': %w", cfg.Directory, err)
	}

	activeName := l.activeLogFileName()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() == activeName || l.isArchiveFile(entry.Name()) {
			count++
		}
	}
	return count, nil
}
