// Package main is the packtracer command line tool: it reconstructs booster
// pack journeys from completed draft exports.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
