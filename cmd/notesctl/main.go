// Package main реализует клиент командной строки для API заметок.
package main

import (
	"context"
	"fmt"
	"os"

	"gonotes/pkg/logger"
)

func main() {
	ctx := logger.NewRequestIDContext(context.Background(), "")

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		if _, writeErr := fmt.Fprintln(os.Stderr, err); writeErr != nil {
			panic(writeErr)
		}
		os.Exit(1)
	}
}
