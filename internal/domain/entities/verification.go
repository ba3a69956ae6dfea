package entities

// VerificationStatus is the phase of the simulated phone verification
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusCodeSent   VerificationStatus = "code_sent"
	VerificationStatusVerified   VerificationStatus = "verified"
)

// VerificationState is what the booking form needs to render the phone
// field and the submit button. The pending code is never serialized.
type VerificationState struct {
	Status        VerificationStatus `json:"status"`
	Phone         string             `json:"phone,omitempty"`
	PhoneVerified bool               `json:"phone_verified"`
	PhoneLocked   bool               `json:"phone_locked"`
	SubmitEnabled bool               `json:"submit_enabled"`
	PendingCode   string             `json:"-"`
}

// CodeDelivery is the simulated delivery of a one-time code
type CodeDelivery struct {
	Phone   string `json:"phone"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
