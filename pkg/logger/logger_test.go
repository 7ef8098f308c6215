package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

func TestNewWithWriter_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info").Named("transfers")
	log.Debug().Msg("no debe salir")
	log.Info().Str("transfer_id", "t1").Msg("traslado confirmado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "transfers", line["component"])
	assert.Equal(t, "t1", line["transfer_id"])
	assert.Equal(t, "traslado confirmado", line["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Info().Msg("silencio") })
}

func TestFor_AgregaRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(&buf, "info")

	assert.Same(t, base, base.For(context.Background()))

	ctx := logger.WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", logger.RequestID(ctx))
	base.For(ctx).Info().Msg("entrada de stock registrada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-42", line["request_id"])
}
