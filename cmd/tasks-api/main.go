// Command tasks-api serves the task REST API and carries the operational
// subcommands for its database.
package main

import (
	"os"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
