package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
)

// Verification messages
const (
	MsgSendCodeInvalidPhone = "Please enter a valid 10-digit phone number."
	MsgInvalidCode          = "Verification failed. Invalid OTP."
	MsgPhoneVerified        = "Phone number verified successfully!"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidPhone reports whether phone is exactly ten ASCII digits
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// CodeGenerator returns a fresh one-time code
type CodeGenerator func() (string, error)

// RandomCode returns a uniformly random code in 100000-999999
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// PhoneVerification is the simulated one-time-code check in front of booking.
//
// unverified -> code_sent on SendCode; code_sent -> verified on a matching
// code; a mismatch drops back to unverified but keeps the code valid until the
// phone changes or a new code is sent. Any phone edit leaves verified.
type PhoneVerification struct {
	generate CodeGenerator
	events   providers.EventBus

	mu    sync.Mutex
	state entities.VerificationState
}

// NewPhoneVerification creates an unverified machine. A nil generator uses RandomCode.
func NewPhoneVerification(generate CodeGenerator, events providers.EventBus) *PhoneVerification {
	if generate == nil {
		generate = RandomCode
	}
	return &PhoneVerification{
		generate: generate,
		events:   events,
		state:    entities.VerificationState{Status: entities.VerificationStatusUnverified},
	}
}

// State returns the current state without the pending code
func (v *PhoneVerification) State() entities.VerificationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.publicLocked()
}

// SendCode issues a new code for phone and surfaces it directly
func (v *PhoneVerification) SendCode(ctx context.Context, phone string) (*entities.CodeDelivery, error) {
	phone = strings.TrimSpace(phone)
	if !ValidPhone(phone) {
		return nil, apperrors.NewValidationError("phone", MsgSendCodeInvalidPhone)
	}

	code, err := v.generate()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate verification code", err)
	}

	v.mu.Lock()
	v.state = entities.VerificationState{
		Status:      entities.VerificationStatusCodeSent,
		Phone:       phone,
		PendingCode: code,
	}
	state := v.publicLocked()
	v.mu.Unlock()

	v.publish(ctx, state)
	return &entities.CodeDelivery{
		Phone:   phone,
		Code:    code,
		Message: fmt.Sprintf("Simulated OTP sent to %s. Use: %s", phone, code),
	}, nil
}

// Verify checks code against the pending code
func (v *PhoneVerification) Verify(ctx context.Context, code string) (entities.VerificationState, error) {
	code = strings.TrimSpace(code)

	v.mu.Lock()
	if v.state.PendingCode == "" || code != v.state.PendingCode {
		v.state.Status = entities.VerificationStatusUnverified
		v.setVerifiedLocked(false)
		state := v.publicLocked()
		v.mu.Unlock()
		v.publish(ctx, state)
		return state, apperrors.NewValidationError("code", MsgInvalidCode)
	}

	v.state.Status = entities.VerificationStatusVerified
	v.setVerifiedLocked(true)
	state := v.publicLocked()
	v.mu.Unlock()

	v.publish(ctx, state)
	return state, nil
}

// PhoneChanged records an edit of the phone field. Editing away from the
// number the code was sent to invalidates the code; leaving verified unlocks
// the phone and disables submit.
func (v *PhoneVerification) PhoneChanged(ctx context.Context, phone string) entities.VerificationState {
	phone = strings.TrimSpace(phone)

	v.mu.Lock()
	if v.state.Status == entities.VerificationStatusVerified || phone != v.state.Phone {
		pending, sentTo := v.state.PendingCode, v.state.Phone
		v.state = entities.VerificationState{Status: entities.VerificationStatusUnverified}
		if phone == sentTo {
			v.state.Phone = sentTo
			v.state.PendingCode = pending
		}
	}
	state := v.publicLocked()
	v.mu.Unlock()

	v.publish(ctx, state)
	return state
}

// IsVerifiedFor reports whether phone is the verified number
func (v *PhoneVerification) IsVerifiedFor(phone string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Status == entities.VerificationStatusVerified && v.state.Phone == strings.TrimSpace(phone)
}

// Reset returns to unverified and discards any pending code
func (v *PhoneVerification) Reset(ctx context.Context) {
	v.mu.Lock()
	v.state = entities.VerificationState{Status: entities.VerificationStatusUnverified}
	state := v.publicLocked()
	v.mu.Unlock()

	v.publish(ctx, state)
}

func (v *PhoneVerification) setVerifiedLocked(verified bool) {
	v.state.PhoneVerified = verified
	v.state.PhoneLocked = verified
	v.state.SubmitEnabled = verified
}

func (v *PhoneVerification) publicLocked() entities.VerificationState {
	s := v.state
	s.PendingCode = ""
	return s
}

func (v *PhoneVerification) publish(ctx context.Context, state entities.VerificationState) {
	publishEvent(ctx, v.events, entities.NewAssistantEvent(entities.AssistantEventVerification, "", state))
}
