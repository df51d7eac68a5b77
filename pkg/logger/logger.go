// Package logger expone el logger estructurado del motor. En producción
// emite JSON por línea; en cualquier otro entorno usa la salida de consola
// legible de zerolog.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones de construcción del logger.
type Config struct {
	Env   string    // "production" -> JSON; cualquier otro -> consola legible
	Level string    // trace, debug, info, warn, error (default: info)
	Out   io.Writer // destino; nil usa os.Stdout
}

// Logger envuelve zerolog para inyectarlo por constructor en los casos de uso.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger según la configuración.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env != "production" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	zl := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// parseLevel mapea el nivel configurado (LOG_LEVEL); desconocido o vacío cae
// en info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error, Fatal delegan en zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Level devuelve el nivel efectivo del logger.
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}
