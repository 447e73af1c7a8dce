package main

import "github.com/tallyhq/tally/cmd/tallyd/cmd"

func main() {
	cmd.Execute()
}
