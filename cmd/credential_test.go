package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/minutedesk/mins-cli/credentials"
)

func TestCredentialCommand_SetAndStatus(t *testing.T) {
	keyring.MockInit()

	deps, out := testDeps(newFakeStore(), "hunter2\n")
	deps.Credentials = credentials.NewKeyringStore()

	cmd := NewCredentialCommand(deps)
	cmd.SetArgs([]string{"set", credentials.DatabasePassword})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Stored database-password")

	secret, err := deps.Credentials.Get(credentials.DatabasePassword)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", secret)

	out.Reset()
	cmd = NewCredentialCommand(deps)
	cmd.SetArgs([]string{"status"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "database-password")
	assert.Contains(t, out.String(), "set")
}

func TestCredentialCommand_SetRejectsEmpty(t *testing.T) {
	keyring.MockInit()

	deps, _ := testDeps(newFakeStore(), "\n")
	deps.Credentials = credentials.NewKeyringStore()

	cmd := NewCredentialCommand(deps)
	cmd.SetArgs([]string{"set", credentials.DatabasePassword})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no secret provided")
}

func TestCredentialCommand_Delete(t *testing.T) {
	keyring.MockInit()

	deps, out := testDeps(newFakeStore(), "")
	deps.Credentials = credentials.NewKeyringStore()
	require.NoError(t, deps.Credentials.Set(credentials.RedisPassword, "s3cret"))

	cmd := NewCredentialCommand(deps)
	cmd.SetArgs([]string{"delete", credentials.RedisPassword})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Deleted redis-password")
}

func TestDoctorCommand_Structure(t *testing.T) {
	deps, _ := testDeps(newFakeStore(), "")

	cmd := NewDoctorCommand(deps)
	assert.Equal(t, "doctor", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
