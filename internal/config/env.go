package config

import (
	stderrors "errors"
	"io/fs"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// LoadEnv loads variables from .env/.env.local in the working directory.
// Existing process environment variables are not overwritten. It returns the
// files that were loaded; missing files are skipped.
func LoadEnv() ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		err := godotenv.Load(name)
		if err == nil {
			loaded = append(loaded, name)
			continue
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		return loaded, err
	}
	return loaded, nil
}
