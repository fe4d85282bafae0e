package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, terminal bool, password []byte, err error) {
	t.Helper()
	origTerminal, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return password, err }
	t.Cleanup(func() {
		isTerminal = origTerminal
		readPassword = origRead
	})
}

func TestPrompter_SecretFromTerminal(t *testing.T) {
	stubTerminal(t, true, []byte("s3cr3t"), nil)
	var out bytes.Buffer

	p := NewPrompter(strings.NewReader(""), 0, &out)
	got, err := p.Secret("Password")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPrompter_SecretTerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("inappropriate ioctl"))

	_, err := NewPrompter(strings.NewReader(""), 0, &bytes.Buffer{}).Secret("Password")
	assert.ErrorContains(t, err, "failed to read password")
}

func TestPrompter_Piped(t *testing.T) {
	stubTerminal(t, false, nil, nil)
	var out bytes.Buffer

	p := NewPrompter(strings.NewReader(" spaced value \nsecond line\nlast"), 0, &out)

	got, err := p.Secret("Value")
	require.NoError(t, err)
	assert.Equal(t, " spaced value ", got, "secrets keep surrounding spaces")

	line, err := p.Line("Name")
	require.NoError(t, err)
	assert.Equal(t, "second line", line)

	line, err = p.Line("Name")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = p.Line("Name")
	assert.Error(t, err)
	assert.Empty(t, out.String(), "no prompts when piped")
}
