// Package main provides the absgrad CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("absgrad %s\n", version)
		return
	}

	fmt.Println("absgrad - Tape-based automatic differentiation for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("The engine is a library; see the tape and drivers packages")
	fmt.Println("for usage.")
}
