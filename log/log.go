// Package log - тонкая обертка над стандартным log с уровнями в виде префиксов сообщений:
// [DEBUG], [INFO], [WARN], [ERROR]. Сообщения [DEBUG] выводятся только при AllowDebug.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var AllowDebug = false

var std = log.New(os.Stderr, "", log.LstdFlags)

// Setup включает отладочный режим: [DEBUG] сообщения, микросекунды и место вызова.
func Setup(debug bool) {
	AllowDebug = debug
	if debug {
		std.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		return
	}
	std.SetFlags(log.LstdFlags)
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Printf(format string, v ...any) {
	if !allowed(format) {
		return
	}
	_ = std.Output(2, fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	_ = std.Output(2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func allowed(s string) bool {
	if AllowDebug {
		return true
	}
	return !strings.HasPrefix(s, "[DEBUG]")
}
