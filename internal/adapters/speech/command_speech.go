// Package speech provides text-to-speech and speech-to-text through external
// commands found on PATH.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
)

// CommandSpeaker speaks text by running a command with the text as its last argument
type CommandSpeaker struct {
	path string
	args []string
}

// NewCommandSpeaker resolves command on PATH. An empty or unknown command
// yields a speaker that reports itself unavailable.
func NewCommandSpeaker(command string) *CommandSpeaker {
	path, args := resolve(command)
	return &CommandSpeaker{path: path, args: args}
}

var _ providers.TextToSpeech = (*CommandSpeaker)(nil)

// Available implements providers.TextToSpeech
func (s *CommandSpeaker) Available() bool {
	return s.path != ""
}

// Speak implements providers.TextToSpeech
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	if !s.Available() {
		return nil
	}
	args := append(append([]string(nil), s.args...), text)
	cmd := exec.CommandContext(ctx, s.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speak: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// CommandTranscriber records one utterance by running a command that prints
// the final transcript on stdout
type CommandTranscriber struct {
	path string
	args []string
}

// NewCommandTranscriber resolves command on PATH
func NewCommandTranscriber(command string) *CommandTranscriber {
	path, args := resolve(command)
	return &CommandTranscriber{path: path, args: args}
}

var _ providers.SpeechToText = (*CommandTranscriber)(nil)

// Available implements providers.SpeechToText
func (t *CommandTranscriber) Available() bool {
	return t.path != ""
}

// Transcribe implements providers.SpeechToText
func (t *CommandTranscriber) Transcribe(ctx context.Context) (string, error) {
	if !t.Available() {
		return "", fmt.Errorf("speech-to-text command not available")
	}
	cmd := exec.CommandContext(ctx, t.path, t.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("transcribe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func resolve(command string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return "", nil
	}
	return path, fields[1:]
}
