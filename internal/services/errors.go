package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAppNotFound     = errors.New("app not found")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrNotPurchased    = errors.New("app not purchased")
	ErrClientNotFound  = errors.New("client not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrReasonRequired  = errors.New("denial reason required")
	ErrAlreadyResolved = errors.New("request already resolved")

	ErrPinNotFound        = errors.New("pin not found")
	ErrPinWrongApp        = errors.New("pin not valid for this app")
	ErrPinAlreadyRedeemed = errors.New("pin already redeemed")
	ErrPinGeneration      = errors.New("could not generate a unique pin")
	ErrLoginRequired      = errors.New("login required to redeem")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")

	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamEmailTaken     = errors.New("team member email already exists")
	ErrTeamPinTaken       = errors.New("team member pin already assigned")

	ErrWebsiteNotFound = errors.New("website details not found")

	ErrVideoNotFound  = errors.New("video not found")
	ErrPromptRequired = errors.New("prompt required")

	ErrInvalidAITask  = errors.New("invalid ai task")
	ErrAIUnavailable  = errors.New("ai provider unavailable")
	ErrImageGenFailed = errors.New("image generation failed")

	// ErrInvalidInput marks InputError values that carry a user-facing message.
	ErrInvalidInput = errors.New("invalid input")
)

// InputError is a 400-class failure whose Message is safe to show.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
