package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"clinicdesk/config"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configura o logger global a partir da configuração da aplicação.
func Init(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil || cfg.App.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(out).With().
		Timestamp().
		Str("app", cfg.App.Name).
		Logger()
}

// SetOutput troca o destino do logger global e devolve o anterior.
func SetOutput(out io.Writer) zerolog.Logger {
	previous := log
	log = zerolog.New(out).With().Timestamp().Logger()
	return previous
}

// Restore reinstala um logger devolvido por SetOutput.
func Restore(l zerolog.Logger) {
	log = l
}

func Get() zerolog.Logger {
	return log
}

func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
