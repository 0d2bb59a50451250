package main

import (
	"fmt"
	"os"

	"tal-archive/pkg/logger"
)

func main() {
	err := newRootCommand().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
