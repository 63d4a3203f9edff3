package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var boldRed = color.New(color.FgRed, color.Bold).SprintFunc()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, boldRed("error:"), err)
		os.Exit(1)
	}
}
