package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"yatube/app/models"
	"yatube/app/repositories"
	"yatube/app/services"
)

// HandleCommand runs a db subcommand and returns the process exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printDBHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "clean":
		clean()
		return 0
	case "init":
		return initDb()
	case "backup":
		if _, code := backup(); code != 0 {
			return code
		}
		return 0
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			return 1
		}
		return restore(args[1])
	case "group":
		if len(args) < 3 {
			fmt.Println("Error: group requires a slug and a title")
			return 1
		}
		description := ""
		if len(args) > 3 {
			description = args[3]
		}
		return addGroup(args[1], args[2], description)
	case "help":
		printDBHelp()
		return 0
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDBHelp()
		return 1
	}
}

// printDBHelp prints help for db subcommands.
func printDBHelp() {
	helpText := `Usage: yatube db <command>

Commands:
  init                                Initialize a new empty database
  group <slug> <title> [description]  Create a group posts can be published in
  clean                               Remove the database
  backup                              Create a backup of the database
  restore <file>                      Restore database from backup
  help                                Display this help message

The database lives in BADGER_PATH (default data/badger).
`
	fmt.Println(helpText)
}

// clean removes the database.
func clean() {
	if !exists(dbPath) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}
	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return
	}
	if err := os.RemoveAll(dbPath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return
	}
	fmt.Println("Database cleaned successfully")
}

// initDb initializes a new empty database.
func initDb() int {
	if exists(dbPath) {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return 0
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}
	db, err := openDB()
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()

	fmt.Println("Database initialized successfully")
	return 0
}

// addGroup creates a group in the badger database.
func addGroup(slug, title, description string) int {
	db, err := openDB()
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	groups := services.NewGroupService(repositories.NewBadgerRepositories(db))
	group := &models.Group{Slug: slug, Title: title, Description: description}
	if err := groups.CreateGroup(context.Background(), group); err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			for field, msg := range ve {
				fmt.Printf("%s: %s\n", field, msg)
			}
			return 1
		}
		fmt.Printf("Failed to create group: %v\n", err)
		return 1
	}
	fmt.Printf("Group %q created with id %d\n", group.Slug, group.ID)
	return 0
}

// backup writes a full backup of the database and returns its path.
func backup() (string, int) {
	if !exists(dbPath) {
		fmt.Println("No database exists to backup")
		return "", 1
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return "", 1
	}

	db, err := openDB()
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return "", 1
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Printf("Failed to create backup file: %v\n", err)
		return "", 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return "", 1
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
	return backupFile, 0
}

// restore restores the database from a backup.
func restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if exists(dbPath) {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}
	db, err := openDB()
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Println("Database restored successfully")
	return 0
}
