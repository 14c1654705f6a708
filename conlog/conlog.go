// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog routes console output. Without a console it goes to the
// standard logger.
package conlog

import (
	"log"
)

var (
	p  func(string, ...interface{}) = log.Printf
	sp func(string, ...interface{}) = log.Printf
)

func SetPrintf(f func(string, ...interface{})) {
	p = f
}
func SetSavePrintf(f func(string, ...interface{})) {
	sp = f
}

func Printf(format string, v ...interface{}) {
	p(format, v...)
}

// SafePrintf prints without notifying, used for long listings.
func SafePrintf(format string, v ...interface{}) {
	sp(format, v...)
}
