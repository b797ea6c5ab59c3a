package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env looks up environment variables.
type Env func(key string) (string, bool)

// OSEnv returns the process environment.
func OSEnv() Env {
	return os.LookupEnv
}

// MapEnv returns an Env backed by vars.
func MapEnv(vars map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// DotEnv reads the given .env files and layers them under the process
// environment: a variable set in the process wins over the same variable in a
// file. With no files, ".env" in the working directory is read.
func DotEnv(files ...string) (Env, error) {
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to read env files: %w", err)
	}

	fileEnv := MapEnv(vars)
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		return fileEnv(key)
	}, nil
}

func (e Env) get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
