//go:build mage

package main

import (
	"github.com/magefile/mage/sh"
)

// Run executes every configured report job.
func Run() error {
	buildFirst()
	return sh.RunV(binPath, "run")
}

// Transactions generates the foreign exchange transaction report.
func Transactions() error {
	buildFirst()
	return sh.RunV(binPath, "run", "transactions")
}

// Position generates the foreign exchange position report.
func Position() error {
	buildFirst()
	return sh.RunV(binPath, "run", "position")
}

// History lists the most recent recorded runs.
func History() error {
	buildFirst()
	return sh.RunV(binPath, "history", "--limit", "10")
}
