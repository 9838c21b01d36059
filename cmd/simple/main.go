package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/yoonhyunchan/logsink"
)

// Demonstrates environment-driven setup: LOG_LEVEL picks the threshold,
// LOG_FILE relocates the active log file (default logs/app.log).
func main() {
	fmt.Println("--- Simple Logger Example ---")

	if err := logsink.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	logsink.Debug("This is a debug message.", "user_id", 123)
	logsink.Info("Application starting...")
	logsink.Warn("Potential issue detected.", "threshold", 0.95)
	logsink.Error("An error occurred!", "code", 500)
	logsink.Critical("Unrecoverable condition!", "subsystem", "demo")

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logsink.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logsink.InfoTrace(1, "Goroutine finished", "id", id) // Log with trace
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	fmt.Println("Shutting down logger...")
	shutdownTimeout := 2 * time.Second
	if err := logsink.Shutdown(shutdownTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files under the configured log directory (default './logs').")
}
