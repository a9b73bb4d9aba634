package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAptManagerInstalled(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		queryErr  error
		installed bool
	}{
		{
			name:      "installed package",
			output:    "install ok installed",
			installed: true,
		},
		{
			name:      "deinstalled package",
			output:    "deinstall ok config-files",
			installed: false,
		},
		{
			name:      "unknown package",
			queryErr:  errors.New("exit status 1"),
			installed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner()
			key := runner.key("dpkg-query", "-W", "-f=${Status}", "grafana")
			runner.outputs[key] = tt.output
			if tt.queryErr != nil {
				runner.fail[key] = tt.queryErr
			}

			m := NewAptManager(runner)
			got, err := m.Installed(context.Background(), "grafana")
			require.NoError(t, err)
			assert.Equal(t, tt.installed, got)
		})
	}
}

func TestAptManagerLockHeld(t *testing.T) {
	t.Run("lock free", func(t *testing.T) {
		runner := newFakeRunner()
		// fuser exits non-zero on every lock path when nothing holds them.
		for _, lock := range dpkgLockPaths {
			runner.fail[runner.key("fuser", lock)] = errors.New("exit status 1")
		}

		held, err := NewAptManager(runner).LockHeld(context.Background())
		require.NoError(t, err)
		assert.False(t, held)
	})

	t.Run("lock held", func(t *testing.T) {
		runner := newFakeRunner()
		// fuser succeeds on the first lock path: a process holds it.

		held, err := NewAptManager(runner).LockHeld(context.Background())
		require.NoError(t, err)
		assert.True(t, held)
	})
}

func TestAptManagerInstall(t *testing.T) {
	runner := newFakeRunner()
	m := NewAptManager(runner)

	require.NoError(t, m.Install(context.Background(), "wget", "gnupg2"))
	assert.Contains(t, runner.calls, "apt-get install -yq wget gnupg2")
}

func TestAptManagerRefreshAndUpgrade(t *testing.T) {
	runner := newFakeRunner()
	m := NewAptManager(runner)

	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Upgrade(context.Background()))

	assert.Equal(t, []string{
		"apt-get update -yq",
		"apt-get upgrade -yq",
	}, runner.calls)
}
