package main

import (
	"fmt"
	"os"

	"showcase/internal/app"
	"showcase/internal/config"
	"showcase/internal/env"
	"showcase/internal/logger"
)

func main() {
	log := logger.New(logger.DefaultPath)
	if err := env.Load(".env"); err != nil {
		log.Errorf("env: %v", err)
	}
	prefs, _ := config.Load(config.DefaultPath)
	if err := prefs.ApplyEnv(); err != nil {
		log.Errorf("%v", err)
	}
	if err := app.Run(prefs, config.DefaultPath, log); err != nil {
		log.Errorf("showcase: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
