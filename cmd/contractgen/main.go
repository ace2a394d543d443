package main

import (
	"os"

	"github.com/teranos/contractgen/cmd/contractgen/commands"
	"github.com/teranos/contractgen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
