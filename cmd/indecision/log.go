package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

type logger bool

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintln(os.Stderr, "")
}

var errorColor = color.New(color.FgRed)

// exit prints err to stderr and terminates the process with the given code
func exit(code int, err error) {
	errorColor.Fprintln(os.Stderr, err)
	os.Exit(code)
}
