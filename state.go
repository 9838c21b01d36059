package logsink

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	Started         atomic.Bool
	LoggerDisabled  atomic.Bool
	ShutdownCalled  atomic.Bool
	DiskFullLogged  atomic.Bool
	DiskStatusOK    atomic.Bool
	ProcessorExited atomic.Bool // Tracks whether the processor goroutine has exited

	flushRequestChan chan chan struct{} // Channel to request a flush
	flushMutex       sync.Mutex         // Protect concurrent Flush calls

	CurrentFile      atomic.Value  // stores *os.File
	CurrentSize      atomic.Int64  // Size of the current log file
	EarliestFileTime atomic.Value  // stores time.Time for retention
	DroppedLogs      atomic.Uint64 // Drops since the last successful report
	TotalDroppedLogs atomic.Uint64 // Drops over the logger lifetime

	ActiveLogChannel atomic.Value // stores chan logRecord
	ConsoleWriter    atomic.Value // stores *sink

	// Background archive compression
	archiveWG sync.WaitGroup

	// Heartbeat statistics
	HeartbeatSequence  atomic.Uint64
	LoggerStartTime    atomic.Value // stores time.Time for uptime calculation
	TotalLogsProcessed atomic.Uint64
	TotalRotations     atomic.Uint64
	TotalCompressions  atomic.Uint64
	TotalDeletions     atomic.Uint64
}
