package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintf_debugFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)
	defer Setup(false)

	Setup(false)
	Printf("[DEBUG] hidden %d", 1)
	Printf("[INFO] shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[INFO] shown 2")

	buf.Reset()
	Setup(true)
	Printf("[DEBUG] visible")
	assert.Contains(t, buf.String(), "[DEBUG] visible")
	assert.Contains(t, buf.String(), "log_test.go")
}
