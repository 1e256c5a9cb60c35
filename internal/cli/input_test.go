package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(r, "Enter something", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Enter something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(r, "Prompt", &out)
	require.NoError(t, err)
	require.Equal(t, "no newline", got)
}

func TestGetPassword_UsesSeam(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	require.Equal(t, "s3cret", pw)
	require.Contains(t, out.String(), "Enter password")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		r := bufio.NewReader(strings.NewReader(tt.answer))
		got, err := Confirm(r, "Delete?", &out)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "answer %q", tt.answer)
		require.Contains(t, out.String(), "[y/N]")
	}
}
