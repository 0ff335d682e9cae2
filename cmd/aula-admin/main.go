package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	code := runMain(Execute, os.Stderr)
	if code != 0 {
		os.Exit(code) //nolint:forbidigo // CLI must propagate command failure to the shell
	}
}

func runMain(execute func() error, stderr io.Writer) int {
	err := execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "canceled")
		return 130
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}
