package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := Wrap(zap.New(core)).With(zap.Int64("menu_id", 7))

	log.Info("loaded")
	log.Debug("dropped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "loaded", entries[0].Message)
		assert.Equal(t, int64(7), entries[0].ContextMap()["menu_id"])
	}
}

func TestNewZapLogger(t *testing.T) {
	l := NewZapLogger(&ZapLoggerConfig{Encoding: "json", Level: "warn", DisableStacktrace: true})
	assert.NotNil(t, l)
	l.Info("not emitted")
}
