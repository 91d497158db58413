package webagent_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/webagent"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := webagent.Errorf(webagent.ENOTFOUND, "tool %q not found", "web_reader")

	assert.Equal(t, webagent.ENOTFOUND, webagent.ErrorCode(err))
	assert.Equal(t, "tool \"web_reader\" not found", webagent.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("run: %w", webagent.Errorf(webagent.EMAXTURNS, "max turns exceeded"))

	assert.Equal(t, webagent.EMAXTURNS, webagent.ErrorCode(err))
	assert.Equal(t, "max turns exceeded", webagent.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, webagent.EINTERNAL, webagent.ErrorCode(err))
	assert.Equal(t, "Internal error.", webagent.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, webagent.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, webagent.ErrorMessage(nil))
}
