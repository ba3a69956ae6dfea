package speech_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/speech"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCommandSpeaker_Unavailable(t *testing.T) {
	for _, command := range []string{"", "definitely-not-a-real-tts-binary"} {
		speaker := speech.NewCommandSpeaker(command)
		assert.False(t, speaker.Available())
		assert.NoError(t, speaker.Speak(context.Background(), "hello"))
	}
}

func TestCommandSpeaker_PassesTextAsLastArgument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spoken.txt")
	script := writeScript(t, `printf '%s|%s' "$1" "$2" > "`+out+`"`)

	speaker := speech.NewCommandSpeaker(script + " -ven-us")
	require.True(t, speaker.Available())
	require.NoError(t, speaker.Speak(context.Background(), "Stay hydrated"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-ven-us|Stay hydrated", string(data))
}

func TestCommandTranscriber(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		transcriber := speech.NewCommandTranscriber("")
		assert.False(t, transcriber.Available())
		_, err := transcriber.Transcribe(context.Background())
		assert.Error(t, err)
	})

	t.Run("reads stdout", func(t *testing.T) {
		transcriber := speech.NewCommandTranscriber(writeScript(t, `echo "  I have a fever  "`))
		text, err := transcriber.Transcribe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "I have a fever", text)
	})

	t.Run("command failure", func(t *testing.T) {
		transcriber := speech.NewCommandTranscriber(writeScript(t, `echo "no microphone" >&2; exit 3`))
		_, err := transcriber.Transcribe(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no microphone")
	})
}
