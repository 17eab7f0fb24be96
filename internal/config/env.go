// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the environment configuration of the tasklog command.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/taskprobe/internal/logger"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

type Config struct {
	// LogFile overrides the task log location, empty means next to the executable.
	LogFile  string `env:"TASKLOG_FILE"`
	LogLevel string `env:"TASKLOG_LOG_LEVEL" envDefault:"INFO"`
}

func Load() (*Config, error) {
	var envVars Config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}
	return &envVars, nil
}

func validateEnvironmentVariables(envVars *Config) error {
	envError := make([]string, 0)

	if !logger.IsValidLevel(envVars.LogLevel) {
		envError = append(envError, "TASKLOG_LOG_LEVEL is not a valid level")
	}
	if envVars.LogFile != "" && strings.TrimSpace(envVars.LogFile) == "" {
		envError = append(envError, "TASKLOG_FILE is blank")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}
