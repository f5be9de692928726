package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Enter password", &out)
	require.Error(t, err)
}
