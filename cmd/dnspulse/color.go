// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/dnspulse/dnspulse/types"

	"github.com/muesli/termenv"
)

var (
	excellentStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	goodStyle      = termenv.Style{}.Foreground(termenv.ANSIYellow)
	fairStyle      = termenv.Style{}.Foreground(termenv.ANSIBrightRed)
	poorStyle      = termenv.Style{}.Foreground(termenv.ANSIRed)
	failedStyle    = termenv.Style{}.Foreground(termenv.ANSIRed).Bold()
)

var headerStyle = termenv.Style{}.Bold()

// levelStyle returns the terminal style for rendering latencies of the
// specified classification bucket.
func levelStyle(level types.LatencyLevel) termenv.Style {
	switch level {
	case types.Excellent:
		return excellentStyle
	case types.Good:
		return goodStyle
	case types.Fair:
		return fairStyle
	case types.Poor:
		return poorStyle
	}
	return failedStyle
}
