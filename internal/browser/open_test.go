package browser

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLaunch() func() {
	orig := launch
	return func() { launch = orig }
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	called := false
	t.Cleanup(restoreLaunch())
	launch = func(string, ...string) error { called = true; return nil }

	for _, link := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "http://", "not a url"} {
		err := Open(link)
		assert.ErrorIs(t, err, ErrNotWebURL, link)
	}
	assert.False(t, called)
}

func TestOpenLaunchesHandler(t *testing.T) {
	var got []string
	t.Cleanup(restoreLaunch())
	launch = func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}

	err := Open("https://example.com/avatar.png")
	if _, _, cmdErr := command(runtime.GOOS, ""); cmdErr != nil {
		require.Error(t, err)
		return
	}
	require.NoError(t, err)
	assert.Contains(t, got, "https://example.com/avatar.png")
}

func TestCommandPerPlatform(t *testing.T) {
	name, args, err := command("darwin", "https://x")
	require.NoError(t, err)
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"https://x"}, args)

	name, _, err = command("linux", "https://x")
	require.NoError(t, err)
	assert.Equal(t, "xdg-open", name)

	_, args, err = command("windows", "https://x")
	require.NoError(t, err)
	assert.Equal(t, "url.dll,FileProtocolHandler", args[0])

	_, _, err = command("plan9", "https://x")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotWebURL))
}
