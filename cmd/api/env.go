package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// dotEnvPathEnv overrides the dotenv file location.
const dotEnvPathEnv = "CALC_DOTENV"

// loadDotEnv loads variables from .env (or $CALC_DOTENV) when the file
// exists. Variables already set in the process environment win.
func loadDotEnv() error {
	path := os.Getenv(dotEnvPathEnv)
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
