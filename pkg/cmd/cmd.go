package cmd

import (
	"github.com/klwxsrx/vocab-client/pkg/env"
	"github.com/klwxsrx/vocab-client/pkg/log"
)

// InitLogger reads the level from levelEnv, info is used when it is unset or unknown.
func InitLogger(levelEnv string, opts ...log.Option) log.Logger {
	levelStr, err := env.Parse[string](levelEnv)
	if err != nil {
		return log.New(log.LevelInfo, opts...)
	}

	level, ok := log.ParseLevel(levelStr)
	if !ok {
		level = log.LevelInfo
	}

	return log.New(level, opts...)
}
