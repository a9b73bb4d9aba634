package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUFWCommands(t *testing.T) {
	runner := newFakeRunner()
	fw := NewUFW(runner)
	ctx := context.Background()

	require.NoError(t, fw.DefaultDenyInbound(ctx))
	require.NoError(t, fw.DefaultAllowOutbound(ctx))
	require.NoError(t, fw.AllowTCP(ctx, 3000))
	require.NoError(t, fw.AllowTCP(ctx, 9090))
	require.NoError(t, fw.Enable(ctx))

	assert.Equal(t, []string{
		"ufw default deny incoming",
		"ufw default allow outgoing",
		"ufw allow 3000/tcp",
		"ufw allow 9090/tcp",
		"ufw --force enable",
	}, runner.calls)
}
