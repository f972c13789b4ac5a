package service

import (
	"fmt"
	"os"

	"yatube/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// Database path - variable to allow testing with different paths
var dbPath = "data/badger"

// Backup directory - variable for the same reason
var backupDir = "data/backups"

func init() {
	if p := os.Getenv("BADGER_PATH"); p != "" {
		dbPath = p
	}
}

func openDB() (*badger.DB, error) {
	return repositories.OpenBadger(dbPath)
}

// confirm asks a yes/no question on stdin. Anything but y or Y is a no.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
