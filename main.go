package main

import (
	"fmt"
	"os"
	"strings"

	"yatube/service"
)

const CliVersion = "1.0.0"

// exit is a variable so tests can intercept it.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches the command line.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("yatube version %s\n", CliVersion)
	case "serve":
		if code := service.RunAppServer(os.Args[2:]); code != 0 {
			exit(code)
		}
	case "db":
		if code := service.HandleCommand(os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: yatube <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [flags]                  Run the blog service.
                                   -addr, -storage, -badger-path, -database-url,
                                   -media-root, -cache, -home-cache-ttl, -debug
                                 Settings are also read from the environment and .env.
  db <command>                   Manage the badger database:
                                   init, group, clean, backup, restore, help
`
	fmt.Println(helpText)
}
