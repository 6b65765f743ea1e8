// Copyright 2026 The Steambox Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"

	"github.com/hackeros/steambox/runtime"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// Exit terminates with a code derived from err: the sandboxed
// session's own exit code when err wraps one, otherwise 1 after
// reporting the error. A nil err exits 0.
func Exit(err error) {
	if err == nil {
		os.Exit(0)
	}
	if code, ok := runtime.IsExitError(err); ok {
		os.Exit(code)
	}
	Fatal(err)
}
