package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionKeys = []string{"token", "userType", "clienteId", "userData", "cached_productos", "cached_productos_timestamp"}

func TestLogoutAttemptsEveryKeyOnce(t *testing.T) {
	s := newRecordingStore()
	for _, k := range sessionKeys {
		s.values[k] = "v"
	}
	s.values["unrelated"] = "keep"
	s.failKeys["clienteId"] = errors.New("permission denied")

	keys := append(append([]string{}, sessionKeys...), "token", "")
	res := RunLogout(context.Background(), LogoutDeps{Store: s, Keys: keys})

	assert.Equal(t, sessionKeys, s.removed)
	require.Len(t, res.Outcomes, len(sessionKeys))

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "clienteId", failed[0].Key)

	assert.Equal(t, map[string]string{"clienteId": "v", "unrelated": "keep"}, s.values)
	assert.False(t, res.Cleared)
	assert.Zero(t, s.cleared)
}

func TestLogoutClearOnFailure(t *testing.T) {
	s := newRecordingStore()
	s.values["token"] = "t"
	s.values["unrelated"] = "gone too"
	s.failKeys["userData"] = errors.New("bridge error")

	res := RunLogout(context.Background(), LogoutDeps{Store: s, Keys: sessionKeys, ClearOnFailure: true})

	assert.True(t, res.Cleared)
	assert.NoError(t, res.ClearErr)
	assert.Equal(t, 1, s.cleared)
	assert.Empty(t, s.values)
}

func TestLogoutClearOnFailureSkippedWhenAllSucceed(t *testing.T) {
	s := newRecordingStore()

	res := RunLogout(context.Background(), LogoutDeps{Store: s, Keys: sessionKeys, ClearOnFailure: true})

	assert.Empty(t, res.Failed())
	assert.False(t, res.Cleared)
	assert.Zero(t, s.cleared)
}
