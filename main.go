package main

import (
	"os"

	"github.com/mixingo/mixingo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
