package main

import (
	"fmt"

	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/config"
)

// listenAddr returns the HTTP listen address, defaulting to :8080.
func listenAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

// loadConfig loads the optional .env file then the environment.
func loadConfig(envFile string) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	return config.Load()
}

// parseArg validates one positional argument of the calc command.
func parseArg(c *calc.Calculator, f calc.Field, raw string) (int, error) {
	n, ok := c.Accept(f, raw)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer in %s, got %q", f, c.Limits().For(f), raw)
	}
	return n, nil
}
