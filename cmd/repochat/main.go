// cmd/repochat/main.go
package main

import (
	cmd "github.com/mwiater/repochat/internal/cli"
)

// main starts the repochat CLI application by delegating to the
// cobra root command defined in the repochat package.
func main() {
	cmd.Execute()
}
