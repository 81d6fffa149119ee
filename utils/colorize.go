package utils

import "fmt"

// Colorization of pretty-printed output is off by default so that dumps
// and golden tests are byte-stable. Drivers flip it on for terminals.
var colorize = false

// SetColorize toggles colorization of pretty-printed output.
func SetColorize(enabled bool) {
	colorize = enabled
}

// CanColorize gates a color.SprintFunc behind the colorization toggle.
func CanColorize(f func(...interface{}) string) func(...interface{}) string {
	return func(is ...interface{}) string {
		if colorize {
			return f(is...)
		}
		return fmt.Sprint(is...)
	}
}
