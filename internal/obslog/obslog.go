// Package obslog builds the logr.Logger used across every package in this
// module, backed by go.uber.org/zap the way kubernaut's pkg/log does
// (kubelog.NewLogger(kubelog.Options{Development, Level})).
package obslog

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// Options controls logger construction.
type Options struct {
	// Development enables human-readable console output instead of JSON,
	// and lowers the default level to debug.
	Development bool

	// Level is the logr verbosity level (0 = info, higher = more verbose).
	Level int

	// OutputPaths replaces zap's default output (stderr) with these paths,
	// so stderr is kept only when listed; an empty slice logs to stderr
	// only. Populated from the LOG_CONFIG file via LoadOptions.
	OutputPaths []string
}

// NewLogger builds a logr.Logger backed by zap per Options.
func NewLogger(opts Options) logr.Logger {
	var zapCfg zap.Config
	if opts.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if len(opts.OutputPaths) > 0 {
		zapCfg.OutputPaths = opts.OutputPaths
	}
	zapCfg.Level = zap.NewAtomicLevelAt(levelToZap(opts.Level, opts.Development))

	zapLogger, err := zapCfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing the process over
		// a logging misconfiguration.
		return logr.Discard()
	}
	return zapr.NewLogger(zapLogger)
}

// FileOptions is the on-disk shape of a LOG_CONFIG file: the same fields
// Options exposes, so LoadOptions can overlay them directly.
type FileOptions struct {
	Level       int      `yaml:"level"`
	OutputPaths []string `yaml:"outputPaths"`
}

// LoadOptions reads a YAML file at path and overlays its fields onto base,
// returning the merged Options. Used by the composition root when
// Config.LogConfigPath names a file.
func LoadOptions(path string, base Options) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, apperrors.Wrapf(err, apperrors.ErrorTypeInvalidData, "reading log config %q", path)
	}
	var fileOpts FileOptions
	if err := yaml.Unmarshal(raw, &fileOpts); err != nil {
		return Options{}, apperrors.Wrapf(err, apperrors.ErrorTypeInvalidData, "parsing log config %q", path)
	}
	base.Level = fileOpts.Level
	if len(fileOpts.OutputPaths) > 0 {
		base.OutputPaths = fileOpts.OutputPaths
	}
	return base, nil
}

func levelToZap(level int, development bool) zapcore.Level {
	if development {
		return zapcore.DebugLevel
	}
	if level > 0 {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
