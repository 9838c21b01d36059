// Demonstrates rotation, zip compression, and retention with a small file cap
// so all three kick in within seconds.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yoonhyunchan/logsink"
)

func main() {
	logsDir := "./rotation_logs"
	_ = os.RemoveAll(logsDir)

	logger, err := logsink.NewBuilder().
		Directory(logsDir).
		Name("demo").
		MaxSizeMB(1).
		Compression("zip").
		RetentionDays(30).
		EnableConsole(false).
		Build()
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}

	// Push enough data through to force several rotations
	payload := strings.Repeat("x", 4096)
	for i := 0; i < 1000; i++ {
		logger.Info("filler", "seq", i, "payload", payload)
	}

	if err := logger.Flush(time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
	}
	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		panic(err)
	}
	fmt.Println("Log directory contents:")
	for _, entry := range entries {
		info, _ := entry.Info()
		fmt.Printf("  %-40s %8d bytes\n", entry.Name(), info.Size())
	}
	fmt.Println("Active file:", filepath.Join(logsDir, "demo.log"))
	fmt.Println("Rotated archives carry a timestamped name and a .zip suffix.")
}
