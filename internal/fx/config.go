package fx

import (
	"errors"
	"io/fs"
	"log"

	"clinicdesk/config"
	"clinicdesk/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		loadConfig,
	),
	fx.Invoke(
		initLogger,
	),
)

// envFiles são lidos em ordem; variáveis já definidas no ambiente prevalecem.
var envFiles = []string{".env", "../../.env"}

func loadConfig() (*config.Config, error) {
	for _, path := range envFiles {
		err := godotenv.Load(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		log.Printf("Aviso: falha ao carregar %s: %v", path, err)
	}
	return config.Load()
}

func initLogger(cfg *config.Config) {
	logger.Init(cfg)
	logger.Info().
		Str("env", cfg.App.Environment).
		Bool("redis", cfg.Redis.Enabled).
		Bool("scheduler", cfg.Scheduler.Enabled).
		Msg("config_loaded")
}
