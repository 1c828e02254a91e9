package main

import (
	"os"

	"github.com/muchen/fenglin/cmd/fenglin/commands"
)

// main is the entry point for the fenglin CLI
// 统一入口: go run ./cmd/fenglin [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
