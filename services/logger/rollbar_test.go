package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classbook/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	conf := &core.Config{Env: "TEST", AppName: "Classbook", Backend: core.BackendFixture, TestMode: true}
	return NewRollbarLogger(log.New(buf, "", 0), conf)
}

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := newTestLogger(buf)

	logger.Error("querying students", core.NewNotFoundError("student", 1), nil, map[string]interface{}{"id": 1})
	assert.Equal(t, "ERROR: querying students\nstudent 1 not found\nmap[id:1]\n", buf.String())

	buf.Reset()
	logger.Info("listening")
	assert.Equal(t, "INFO: listening\n", buf.String())
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{err, nil, map[string]interface{}{"id": 1, "backend": "remote"}})
	assert.Equal(t, []interface{}{
		"msg",
		err,
		map[string]interface{}{"app": "Classbook", "backend": "remote", "id": 1},
	}, args)

	// extras are not shared between calls
	args = logger.prepare("msg", nil)
	assert.Equal(t, map[string]interface{}{"app": "Classbook", "backend": core.BackendFixture}, args[1])
}
