// Package main provides the daybook CLI.
package main

import "github.com/mesh-intelligence/daybook/internal/cli"

func main() {
	cli.Execute()
}
