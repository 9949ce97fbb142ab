package main

import (
	"os"

	"github.com/fakhrymubarak/city-weather/internal/cli"
	"github.com/fakhrymubarak/city-weather/internal/config"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		config.GetLogger().Errorw("Command failed", "error", err)
		os.Exit(1)
	}
}
