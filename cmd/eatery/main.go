package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/eringen/eatery/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("eatery")

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(log, args)
	case "serve":
		err = runServe(log, args)
	case "import":
		err = runImport(log, args)
	case "publish":
		err = runPublish(log, args)
	case "new":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: eatery new <dir>")
			os.Exit(1)
		}
		err = runNew(args[0])
	case "version":
		fmt.Printf("eatery %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Error("command failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`eatery - static site generator and form relay for restaurant chains

Usage:
  eatery <command> [flags]

Commands:
  build         Render the site into OUT_DIR (-db, -prune)
  serve         Run the preview server and form relay (-db)
  import        Load CONTENT_DIR into the SQLite database
  publish       Upload OUT_DIR to PUBLISH_TARGET (-dry-run, -delete, -rps)
  new <dir>     Create a starter content directory
  version       Print the eatery version
  help          Show this help message

Configuration is read from the environment and an optional .env file.

Examples:
  eatery new taco-shack
  eatery build -prune
  PUBLISH_TARGET=s3 PUBLISH_S3_BUCKET=www.example.com eatery publish`)
}
