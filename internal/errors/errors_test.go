package errors

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := LoadError("stack2.coef.mgh missing", os.ErrNotExist)
	wrapped := Wrapf(base, "loading %s", "modelA.t")

	assert.Equal(t, CodeLoadError, GetCode(wrapped))
	assert.True(t, IsCode(wrapped, CodeLoadError))
	assert.ErrorIs(t, wrapped, os.ErrNotExist)
	assert.Contains(t, wrapped.Error(), "loading modelA.t")
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "context")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "context: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestIsCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", ScanError("/nope", os.ErrNotExist))
	assert.True(t, IsCode(err, CodeScanError))
	assert.False(t, IsCode(err, CodeLoadError))
	assert.True(t, IsAppError(err))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestOverlapErrorMessage(t *testing.T) {
	err := OverlapError("no significant overlap region")
	assert.Equal(t, "no significant overlap region", err.Error())
	assert.Equal(t, CodeOverlapError, err.Code)
}
