package main

import (
	"os"

	"github.com/monad-lang/monad/cmd/monad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
