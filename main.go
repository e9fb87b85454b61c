package main

import (
	"log/slog"
	"os"

	"imgfetch/cmd"
	"imgfetch/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cmd.NewLogger(cnf.LogLevel))

	if err := cmd.Execute(cnf); err != nil {
		slog.Debug("Command failed", "error", err)
		os.Exit(1)
	}
}
