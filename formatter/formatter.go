// Package formatter renders log records for the file and console sinks.
//
// The file sink uses the plain form:
//
//	2006-01-02 15:04:05 | INFO     | package:function:42 - message text
//
// with the level name space-padded to 8 characters. The console form carries
// the same fields wrapped in per-level ANSI colors.
package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/yoonhyunchan/logsink/sanitizer"
)

// Log level values, ordered by severity.
const (
	LevelDebug    int64 = -4
	LevelInfo     int64 = 0
	LevelWarn     int64 = 4
	LevelError    int64 = 8
	LevelCritical int64 = 12
)

// Internal heartbeat levels, above every user severity.
const (
	LevelProc int64 = 16
	LevelDisk int64 = 20
	LevelSys  int64 = 24
)

// Record flags controlling output structure.
const (
	FlagRaw           int64 = 0b001
	FlagShowTimestamp int64 = 0b010
	FlagShowLevel     int64 = 0b100
	FlagDefault             = FlagShowTimestamp | FlagShowLevel
)

// DefaultTimestampFormat matches the documented file line layout.
const DefaultTimestampFormat = "2006-01-02 15:04:05"

// levelNameWidth is the fixed width of the level column.
const levelNameWidth = 8

// ColorMode controls ANSI color emission for console output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Follow fatih/color global detection
	ColorAlways ColorMode = "always" // Force colors on
	ColorNever  ColorMode = "never"  // Force colors off
)

// palette holds the per-field color functions for console rendering.
type palette struct {
	timestamp *color.Color
	caller    *color.Color
	levels    map[int64]*color.Color
	fallback  *color.Color
}

func newPalette(mode ColorMode) *palette {
	p := &palette{
		timestamp: color.New(color.FgGreen),
		caller:    color.New(color.FgCyan),
		levels: map[int64]*color.Color{
			LevelDebug:    color.New(color.FgBlue),
			LevelInfo:     color.New(color.FgWhite),
			LevelWarn:     color.New(color.FgYellow),
			LevelError:    color.New(color.FgRed),
			LevelCritical: color.New(color.FgRed, color.Bold),
			LevelProc:     color.New(color.FgMagenta),
			LevelDisk:     color.New(color.FgMagenta),
			LevelSys:      color.New(color.FgMagenta),
		},
		fallback: color.New(color.FgWhite),
	}

	all := []*color.Color{p.timestamp, p.caller, p.fallback}
	for _, c := range p.levels {
		all = append(all, c)
	}
	switch mode {
	case ColorAlways:
		for _, c := range all {
			c.EnableColor()
		}
	case ColorNever:
		for _, c := range all {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) level(level int64) *color.Color {
	if c, ok := p.levels[level]; ok {
		return c
	}
	return p.fallback
}

// Formatter converts records into output bytes. Not safe for concurrent use;
// the processor owns one formatter per sink.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	format          string
	timestampFormat string
	colors          *palette
	buf             []byte
}

// New creates a formatter with the provided sanitizer. Without one, strings
// pass through unmodified.
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:       san,
		format:          "txt",
		timestampFormat: DefaultTimestampFormat,
		colors:          newPalette(ColorNever),
		buf:             make([]byte, 0, 1024),
	}
}

// Type sets the output format ("txt", "json", or "raw").
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	return f
}

// TimestampFormat sets the timestamp layout string.
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// Color sets the ANSI color mode used by Console.
func (f *Formatter) Color(mode ColorMode) *Formatter {
	f.colors = newPalette(mode)
	return f
}

// Format renders a record in the configured file format.
// The returned slice is reused by the next call.
func (f *Formatter) Format(flags int64, timestamp time.Time, level int64, caller string, args []any) []byte {
	f.buf = f.buf[:0]

	if flags&FlagRaw != 0 || f.format == "raw" {
		return f.formatRaw(args)
	}
	if f.format == "json" {
		return f.formatJSON(flags, timestamp, level, caller, args)
	}
	return f.formatTxt(flags, timestamp, level, caller, args)
}

// Console renders a record for terminal output, colorized per level.
// Raw and JSON formats are emitted uncolored; color codes would corrupt them.
func (f *Formatter) Console(flags int64, timestamp time.Time, level int64, caller string, args []any) []byte {
	if flags&FlagRaw != 0 || f.format != "txt" {
		return f.Format(flags, timestamp, level, caller, args)
	}

	f.buf = f.buf[:0]
	lvl := f.colors.level(level)

	needsSep := false
	if flags&FlagShowTimestamp != 0 {
		f.buf = append(f.buf, f.colors.timestamp.Sprint(timestamp.Format(f.timestampFormat))...)
		needsSep = true
	}
	if flags&FlagShowLevel != 0 {
		if needsSep {
			f.buf = append(f.buf, " | "...)
		}
		f.buf = append(f.buf, lvl.Sprint(PaddedLevelName(level))...)
		needsSep = true
	}
	if caller != "" {
		if needsSep {
			f.buf = append(f.buf, " | "...)
		}
		f.buf = append(f.buf, f.colors.caller.Sprint(caller)...)
		needsSep = true
	}

	msg := f.message(args)
	if needsSep {
		f.buf = append(f.buf, " - "...)
	}
	f.buf = append(f.buf, lvl.Sprint(msg)...)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// formatTxt produces: "timestamp | LEVEL    | caller - message\n".
func (f *Formatter) formatTxt(flags int64, timestamp time.Time, level int64, caller string, args []any) []byte {
	needsSep := false
	if flags&FlagShowTimestamp != 0 {
		f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
		needsSep = true
	}
	if flags&FlagShowLevel != 0 {
		if needsSep {
			f.buf = append(f.buf, " | "...)
		}
		f.buf = append(f.buf, PaddedLevelName(level)...)
		needsSep = true
	}
	if caller != "" {
		if needsSep {
			f.buf = append(f.buf, " | "...)
		}
		f.buf = append(f.buf, caller...)
		needsSep = true
	}

	msg := f.message(args)
	if needsSep {
		f.buf = append(f.buf, " - "...)
	}
	f.buf = append(f.buf, msg...)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// formatJSON produces a single-line JSON object.
func (f *Formatter) formatJSON(flags int64, timestamp time.Time, level int64, caller string, args []any) []byte {
	f.buf = append(f.buf, '{')
	needsComma := false

	if flags&FlagShowTimestamp != 0 {
		f.buf = append(f.buf, `"time":"`...)
		f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
		f.buf = append(f.buf, '"')
		needsComma = true
	}
	if flags&FlagShowLevel != 0 {
		if needsComma {
			f.buf = append(f.buf, ',')
		}
		f.buf = append(f.buf, `"level":"`...)
		f.buf = append(f.buf, LevelName(level)...)
		f.buf = append(f.buf, '"')
		needsComma = true
	}
	if caller != "" {
		if needsComma {
			f.buf = append(f.buf, ',')
		}
		f.buf = append(f.buf, `"caller":"`...)
		f.writeJSONString(caller)
		f.buf = append(f.buf, '"')
		needsComma = true
	}

	if needsComma {
		f.buf = append(f.buf, ',')
	}
	f.buf = append(f.buf, `"message":"`...)
	f.writeJSONString(f.message(args))
	f.buf = append(f.buf, '"', '}', '\n')
	return f.buf
}

// formatRaw joins args space-separated without metadata or trailing newline.
func (f *Formatter) formatRaw(args []any) []byte {
	for i, arg := range args {
		if i > 0 {
			f.buf = append(f.buf, ' ')
		}
		f.buf = append(f.buf, f.stringify(arg)...)
	}
	return f.buf
}

// message joins args space-separated and sanitizes the result, so a crafted
// value cannot break out of the record's single line.
func (f *Formatter) message(args []any) string {
	var b bytes.Buffer
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.stringify(arg))
	}
	return f.sanitizer.Sanitize(b.String())
}

// stringify converts a value to text. Structured types fall back to a compact
// spew dump so their contents survive into the log.
func (f *Formatter) stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "nil"
	case time.Duration:
		return val.String()
	case time.Time:
		return val.Format(f.timestampFormat)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, val)
		return string(bytes.TrimSpace(b.Bytes()))
	}
}

// writeJSONString appends str with JSON escaping.
func (f *Formatter) writeJSONString(str string) {
	for i := 0; i < len(str); {
		if c := str[i]; c < ' ' || c == '"' || c == '\\' {
			switch c {
			case '\\', '"':
				f.buf = append(f.buf, '\\', c)
			case '\n':
				f.buf = append(f.buf, '\\', 'n')
			case '\r':
				f.buf = append(f.buf, '\\', 'r')
			case '\t':
				f.buf = append(f.buf, '\\', 't')
			case '\b':
				f.buf = append(f.buf, '\\', 'b')
			case '\f':
				f.buf = append(f.buf, '\\', 'f')
			default:
				f.buf = append(f.buf, fmt.Sprintf(`\u%04x`, c)...)
			}
			i++
		} else {
			start := i
			for i < len(str) && str[i] >= ' ' && str[i] != '"' && str[i] != '\\' {
				i++
			}
			f.buf = append(f.buf, str[start:i]...)
		}
	}
}

// LevelName returns the canonical name for a level value.
func LevelName(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelProc:
		return "PROC"
	case LevelDisk:
		return "DISK"
	case LevelSys:
		return "SYS"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// PaddedLevelName returns the level name space-padded to the fixed column
// width. Names longer than the column (CRITICAL) are returned as-is.
func PaddedLevelName(level int64) string {
	name := LevelName(level)
	for len(name) < levelNameWidth {
		name += " "
	}
	return name
}
