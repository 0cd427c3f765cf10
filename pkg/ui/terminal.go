package ui

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Output state shared by every print helper. Colors default to on when
// stdout is a terminal and NO_COLOR is unset; quiet mode drops everything
// except errors.
var (
	mu           sync.Mutex
	colorEnabled = term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	quietMode    bool
)

// SetColorEnabled turns ANSI colors on or off for all helpers
func SetColorEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorEnabled = enabled
}

// SetQuietMode suppresses all output except errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
}

func colorsOn() bool {
	mu.Lock()
	defer mu.Unlock()
	return colorEnabled
}

func quiet() bool {
	mu.Lock()
	defer mu.Unlock()
	return quietMode
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
// when colors are enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorsOn() {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintError prints an error message in red. Errors print even in
// quiet mode, on stderr so they survive stdout redirection.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(os.Stderr, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quiet() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a label/value pair in cyan and yellow
func PrintInfo(label string, value string) {
	if quiet() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if quiet() {
		return
	}
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quiet() {
		return
	}
	fmt.Println(Magenta(msg))
}
