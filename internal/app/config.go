package app

import (
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
	"github.com/nbeaumont/exquisite-backend/internal/utils"
)

type Config struct {
	Port          string
	HintWordCount int
	Environment   string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:          utils.GetEnv("PORT", "8080", log),
		HintWordCount: utils.GetEnvAsInt("HINT_WORD_COUNT", 3, log),
		Environment:   utils.GetEnv("APP_ENV", "development", log),
	}
}
