package main

import (
	"minesite-model/cmd/cli/commands"
)

// Minimal entrypoint that delegates to the Cobra CLI defined in cmd/cli/commands.
func main() {
	commands.Execute()
}
