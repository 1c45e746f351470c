package main

import (
	"embed"
	"errors"
	"io/fs"
	"log"
	"os"

	"entities/internal/cli"
)

//go:embed web/*
var webFS embed.FS

// Set at build time via -ldflags "-X main.version=..."
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	web, err := fs.Sub(webFS, "web")
	if err != nil {
		log.Fatalf("Failed to load embedded web assets: %v", err)
	}

	cmd := cli.NewRootCommand(os.Stdout, cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}, web)
	if err := cmd.Execute(); err != nil {
		log.Printf("entities: %v", err)
		var withExitCode interface{ ExitCode() int }
		if errors.As(err, &withExitCode) {
			os.Exit(withExitCode.ExitCode())
		}
		os.Exit(1)
	}
}
