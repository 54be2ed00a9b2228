// Package main is the entry point for the pwv CLI.
package main

import "github.com/mosawalhi7/passweaver/cmd"

func main() {
	cmd.Execute()
}
