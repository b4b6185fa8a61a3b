package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"live-airlines/provisioner/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "cli-test-secret")

	out, err := run(t, "token", "--subject", "deploy-bot", "--ttl", "5m")
	require.NoError(t, err)

	claims, err := auth.NewTokenService([]byte("cli-test-secret")).Validate(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "deploy-bot", claims.Subject)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := run(t, "token")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}

func TestDropRequiresForce(t *testing.T) {
	_, err := run(t, "drop")
	assert.ErrorIs(t, err, errDropNotConfirmed)
}

func TestPurgeRejectsNonPositiveDays(t *testing.T) {
	_, err := run(t, "purge", "--days", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--days must be positive")
}

func TestInvalidConfigFailsBeforeConnecting(t *testing.T) {
	t.Setenv("MONGO_TIMEOUT_MS", "not-a-number")

	_, err := run(t, "provision")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_TIMEOUT_MS")
}

func TestMissingEnvFileIsAnError(t *testing.T) {
	_, err := run(t, "--env-file", "/nonexistent/.env", "token")
	require.Error(t, err)
}
