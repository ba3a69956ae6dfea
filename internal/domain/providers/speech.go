package providers

import "context"

// TextToSpeech speaks text aloud. Implementations are best effort.
type TextToSpeech interface {
	Available() bool
	Speak(ctx context.Context, text string) error
}

// SpeechToText records one utterance and returns the final transcript
type SpeechToText interface {
	Available() bool
	Transcribe(ctx context.Context) (string, error)
}
