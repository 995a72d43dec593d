package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ cron.Logger = cronLogger{}

func TestCronLogger_PanicoRecuperadoSeRegistraComoError(t *testing.T) {
	var buf bytes.Buffer
	cl := cronLogger{log: zerolog.New(&buf)}

	job := cron.NewChain(cron.Recover(cl)).Then(cron.FuncJob(func() { panic("sin conexión") }))
	job.Run()

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "panic", line["message"])
	assert.Contains(t, line["error"], "sin conexión")
}

func TestCronLogger_CamposClaveValor(t *testing.T) {
	var buf bytes.Buffer
	cl := cronLogger{log: zerolog.New(&buf)}

	cl.Error(errors.New("fallo"), "job", "entry", 3, 7, "impar")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fallo", line["error"])
	assert.Equal(t, float64(3), line["entry"])
	assert.Equal(t, "impar", line["7"])
}
