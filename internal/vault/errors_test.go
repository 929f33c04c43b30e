package vault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := transportErr("fetch", inner)

	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, inner))

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, KindTransport, clientErr.Kind)
	assert.Equal(t, "fetch", clientErr.Op)
}

func TestError_Message(t *testing.T) {
	err := storeErr("list", "permission denied")

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, KindStore, clientErr.Kind)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Contains(t, err.Error(), "list")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "store", KindStore.String())
	assert.Equal(t, "local", KindLocal.String())
}

func TestLocalErr_WrapsSentinels(t *testing.T) {
	err := localErr("login", fmt.Errorf("%w: extra context", ErrNoCachedToken))

	assert.True(t, errors.Is(err, ErrNoCachedToken))
}
