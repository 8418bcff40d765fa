package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mitchellh/colorstring"
)

var (
	verbose atomic.Bool
	colored atomic.Bool

	mu         sync.Mutex
	console    io.Writer = os.Stdout
	outputFile *os.File
	outputPath string

	colorize = colorstring.Colorize{Colors: colorstring.DefaultColors, Reset: true}
	plain    = colorstring.Colorize{Colors: colorstring.DefaultColors, Disable: true, Reset: true}
)

// SetVerbose enables or disables debug logging for the current process.
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// SetColor enables or disables color tags in console output. The log
// file, when configured, always receives uncolored text.
func SetColor(enabled bool) {
	colored.Store(enabled)
}

// ColorEnabled reports whether console output is colorized.
func ColorEnabled() bool {
	return colored.Load()
}

// SetOutputFile configures optional file logging while preserving console
// output. Passing an empty path disables file logging.
func SetOutputFile(path string) error {
	path = strings.TrimSpace(path)

	mu.Lock()
	defer mu.Unlock()

	if path == outputPath {
		return nil
	}

	if outputFile != nil {
		if err := outputFile.Close(); err != nil {
			outputFile = nil
			outputPath = ""
			return err
		}
		outputFile = nil
		outputPath = ""
	}

	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	outputFile = f
	outputPath = path
	return nil
}

// Close flushes and closes the log file if one is configured.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if outputFile == nil {
		return nil
	}
	err := outputFile.Close()
	outputFile = nil
	outputPath = ""
	return err
}

func write(s string) {
	fmt.Fprint(console, s)
	if outputFile != nil {
		fmt.Fprint(outputFile, s)
	}
}

// Infof prints formatted output regardless of verbosity level.
func Infof(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write(fmt.Sprintf(format, args...))
}

// Infoln prints output regardless of verbosity level.
func Infoln(args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write(fmt.Sprintln(args...))
}

// Debugf prints formatted output only when verbose mode is enabled.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	write(fmt.Sprintf(format, args...))
}

// Colorf prints formatted output, interpreting colorstring tags such as
// [green] in the format string. Tags are rendered as ANSI codes on the
// console when color is enabled and stripped otherwise; the log file
// always receives the stripped form. Tags are only expanded in the
// format string, never in args.
func Colorf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	consoleFormat := plain.Color(format)
	if colored.Load() {
		consoleFormat = colorize.Color(format)
	}
	fmt.Fprintf(console, consoleFormat, args...)
	if outputFile != nil {
		fmt.Fprintf(outputFile, plain.Color(format), args...)
	}
}
