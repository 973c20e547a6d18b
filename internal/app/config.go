package app

import (
	"fmt"

	_ "github.com/joho/godotenv/autoload"

	"task-api/internal/config"
	"task-api/internal/services"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}

	if len(cfg.JWT.SigningKey) < services.MinSigningKeyLen {
		err = fmt.Errorf("jwt signing key must be at least %d bytes", services.MinSigningKeyLen)
		globalLogger.Error().
			Err(err).
			Msg("refusing weak signing key")
		panic(err)
	}

	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	config.SetGlobal(cfg)
}
