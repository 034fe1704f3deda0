// Package main is the entry point for the tennismetrics CLI, which computes
// ATP/WTA player statistics from per-season match databases.
package main

import "github.com/pable/go-tennis-metrics/cmd"

func main() {
	cmd.Execute()
}
