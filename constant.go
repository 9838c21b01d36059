package logsink

import (
	"time"

	"github.com/yoonhyunchan/logsink/formatter"
)

// Log level constants, ordered by severity.
const (
	LevelDebug    = formatter.LevelDebug
	LevelInfo     = formatter.LevelInfo
	LevelWarn     = formatter.LevelWarn
	LevelError    = formatter.LevelError
	LevelCritical = formatter.LevelCritical
)

// Heartbeat log levels, above every user severity so they always pass the
// threshold once heartbeats are enabled.
const (
	LevelProc = formatter.LevelProc
	LevelDisk = formatter.LevelDisk
	LevelSys  = formatter.LevelSys
)

// Record flags for controlling output structure.
const (
	FlagRaw           = formatter.FlagRaw
	FlagShowTimestamp = formatter.FlagShowTimestamp
	FlagShowLevel     = formatter.FlagShowLevel
	FlagDefault       = formatter.FlagDefault
)

// Environment variables read by NewConfigFromEnv.
const (
	EnvLogLevel = "LOG_LEVEL"
	EnvLogFile  = "LOG_FILE"
)

const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Bytes written between reactive disk checks
	reactiveCheckThresholdBytes int64 = 10 * 1024 * 1024
	// Suffix appended to compressed archives
	zipSuffix = ".zip"
)
