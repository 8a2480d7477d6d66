package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaplex/realestate/internal/cli/commands"
)

func TestRootCmd_Version(t *testing.T) {
	out := &bytes.Buffer{}
	env := &commands.Env{Server: commands.DefaultServer, Out: out, In: strings.NewReader("")}

	cmd := NewRootCmd(env)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "sitectl version dev\n", out.String())
}

func TestRootCmd_ServerFlag(t *testing.T) {
	out := &bytes.Buffer{}
	env := &commands.Env{Server: commands.DefaultServer, Out: out, In: strings.NewReader("")}

	cmd := NewRootCmd(env)
	cmd.SetArgs([]string{"--server", "http://cms.example.com:5000/", "version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "http://cms.example.com:5000", env.Server)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd(&commands.Env{Out: &bytes.Buffer{}})

	for _, name := range []string{"login", "logout", "status", "content", "export", "import", "version"} {
		found, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}
