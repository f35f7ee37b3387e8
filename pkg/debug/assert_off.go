//go:build !debug
// +build !debug

package debug

import "io"

// Assert is compiled out without the debug tag.
func Assert(cond bool, msg interface{}) {}

func Fprintf(w io.Writer, format string, a ...interface{}) {}

func Fprint(w io.Writer, s string) {}
