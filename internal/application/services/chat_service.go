package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
)

// Greeting opens every chat session
const Greeting = "Hello! I'm ChikitsaMitra. How can I help you today?"

// SpeechUnavailableMessage is shown when no speech-to-text capability exists
const SpeechUnavailableMessage = "Speech recognition not supported."

// ChatService answers chat messages and drives optional speech I/O
type ChatService struct {
	resolver *ResponseResolver
	tts      providers.TextToSpeech
	stt      providers.SpeechToText
	metrics  *observability.Metrics
}

// NewChatService creates a new chat service. tts and stt may be nil.
func NewChatService(resolver *ResponseResolver, tts providers.TextToSpeech, stt providers.SpeechToText, metrics *observability.Metrics) *ChatService {
	return &ChatService{
		resolver: resolver,
		tts:      tts,
		stt:      stt,
		metrics:  metrics,
	}
}

// Greet returns the greeting and speaks it
func (s *ChatService) Greet(ctx context.Context) string {
	s.speak(ctx, Greeting)
	return Greeting
}

// Reply answers message. A blank message gets no reply and ok is false.
func (s *ChatService) Reply(ctx context.Context, message string) (reply string, ok bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", false
	}

	match := s.resolver.Match(message)
	observability.LoggerFromContext(ctx).Debug().
		Str("outcome", string(match.Outcome)).
		Str("keyword", match.Keyword).
		Int("entry", match.Index).
		Msg("chat message resolved")
	if s.metrics != nil {
		observability.AddCount(ctx, s.metrics.ChatResolveCount, attribute.String("outcome", string(match.Outcome)))
	}

	s.speak(ctx, match.Response)
	return match.Response, true
}

// CanListen reports whether speech input is available
func (s *ChatService) CanListen() bool {
	return s.stt != nil && s.stt.Available()
}

// Listen records one utterance and answers it. The transcript is returned
// alongside the reply so the surface can echo it.
func (s *ChatService) Listen(ctx context.Context) (transcript, reply string, err error) {
	if !s.CanListen() {
		return "", "", apperrors.NewUnavailableError(SpeechUnavailableMessage)
	}

	transcript, err = s.stt.Transcribe(ctx)
	if err != nil {
		return "", "", apperrors.NewExternalError("speech recognition failed", err)
	}

	reply, _ = s.Reply(ctx, transcript)
	return strings.TrimSpace(transcript), reply, nil
}

func (s *ChatService) speak(ctx context.Context, text string) {
	if s.tts == nil || !s.tts.Available() {
		return
	}
	if err := s.tts.Speak(ctx, text); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("text-to-speech failed")
	}
}
