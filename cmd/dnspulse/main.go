// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
)

// For CLI unit tests...
var osExit = os.Exit

func main() {
	// Note: cobra already prints the error itself, so no additional
	// fmt.Println(err) here, see also:
	// https://github.com/spf13/cobra/issues/304
	if err := newRootCmd().Execute(); err != nil {
		osExit(1)
	}
}
