package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryFromRaw_Partition(t *testing.T) {
	raw := []string{"alpha", "beta/", "gamma", "delta/", "epsilon"}

	var keys, dirs int

	for _, name := range raw {
		entry := entryFromRaw(name)
		switch entry.Kind {
		case EntryKey:
			keys++
		case EntryDir:
			dirs++

			assert.NotContains(t, entry.Name, Separator)
		}
	}

	// Partition is lossless: every raw name lands in exactly one bucket.
	assert.Equal(t, len(raw), keys+dirs)
	assert.Equal(t, 3, keys)
	assert.Equal(t, 2, dirs)
}

func TestEntryFromRaw_DirStripsSeparator(t *testing.T) {
	entry := entryFromRaw("accounts/")

	assert.Equal(t, EntryDir, entry.Kind)
	assert.Equal(t, "accounts", entry.Name)
}

func TestHealthFromHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want HealthStatus
	}{
		{200, HealthActive},
		{429, HealthStandby},
		{472, HealthRecovery},
		{473, HealthPerformance},
		{501, HealthUninitialized},
		{503, HealthSealed},
	}

	for _, tt := range tests {
		status, err := healthFromHTTPStatus(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, status)
	}
}

func TestHealthFromHTTPStatus_UnknownCode(t *testing.T) {
	_, err := healthFromHTTPStatus(418)
	require.Error(t, err)

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, KindStore, clientErr.Kind)
}

func TestHealthStatus_String(t *testing.T) {
	assert.Equal(t, "active", HealthActive.String())
	assert.Equal(t, "sealed", HealthSealed.String())
	assert.Equal(t, "uninitialized", HealthUninitialized.String())
}
