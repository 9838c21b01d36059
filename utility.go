package logsink

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

// fmtErrorf wrapper, keeps every error prefixed with the package name.
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "logsink: ") {
		format = "logsink: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// ParseLevel converts a level name to its numeric constant. Unrecognized
// names are an error rather than a silent fallback: a typo in LOG_LEVEL must
// not suppress all logging.
func ParseLevel(levelStr string) (int64, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use DEBUG, INFO, WARNING, ERROR, CRITICAL)", levelStr)
	}
}

// callsite builds the "package:function:line" identifier of the frame that
// emitted a record. With depth > 1, enclosing callers are prepended to the
// function segment in caller -> callee order; the line is always the
// innermost frame's.
func callsite(depth int64, skip int) string {
	if depth <= 0 {
		return ""
	}
	if depth > 10 {
		depth = 10
	}

	pc := make([]uintptr, int(depth)+skip)
	n := runtime.Callers(skip+1, pc) // +1 because Callers includes its own frame
	if n == 0 {
		return "(unknown)"
	}

	frames := runtime.CallersFrames(pc[:n])
	var pkg string
	var line int
	var funcs []string
	count := 0
	for {
		frame, more := frames.Next()
		framePkg, frameFn := splitFuncName(frame.Function)
		if count == 0 {
			pkg = framePkg
			line = frame.Line
		}
		funcs = append(funcs, frameFn)
		count++
		if !more || count >= int(depth) {
			break
		}
	}
	if len(funcs) == 0 {
		return "(unknown)"
	}

	// Reverse for caller -> callee order
	for i, j := 0, len(funcs)-1; i < j; i, j = i+1, j-1 {
		funcs[i], funcs[j] = funcs[j], funcs[i]
	}
	return fmt.Sprintf("%s:%s:%d", pkg, strings.Join(funcs, "->"), line)
}

// splitFuncName splits a runtime function name
// ("github.com/org/repo/pkg.(*Type).Method") into package and function parts.
func splitFuncName(full string) (pkg, fn string) {
	if full == "" {
		return "(unknown)", "(unknown)"
	}
	base := path.Base(full)
	if idx := strings.Index(base, "."); idx >= 0 {
		return base[:idx], base[idx+1:]
	}
	return base, base
}
