package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gastroflow/gastroflow-cli/internal/cmd"
)

func TestRunTUIWithoutTerminalReturnsError(t *testing.T) {
	called := false
	err := runTUI(func() (*cmd.Env, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, errNotInteractive)
	assert.False(t, called)
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"login", "register", "logout", "whoami", "products", "suppliers"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("api-url"))
}

func TestRootHelp(t *testing.T) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "products")
	assert.Contains(t, out.String(), "--api-url")
}

func TestMainHelpFlagDoesNotExit(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"gastroflow", "--help"}
	defer func() { os.Args = oldArgs }()

	// main() should return normally for help (no os.Exit).
	main()
}

func TestWhoamiWithoutSessionFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()
	root.SetArgs([]string{"whoami"})

	err := root.Execute()
	assert.Error(t, err)
}
