package dbg

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeNone = "none"
	ModeDev  = "dev"
	ModeProd = "prod"
)

func Modes() []string {
	return []string{ModeNone, ModeDev, ModeProd}
}

// NewLogger builds the logger for mode. Both real modes write to stderr so reports on
// stdout stay clean.
func NewLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch mode {
	case ModeNone, "":
		return zap.NewNop(), nil
	case ModeDev:
		cfg = zap.NewDevelopmentConfig()
	case ModeProd:
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to build %s logger: %w", mode, err)
	}
	return logger, nil
}
