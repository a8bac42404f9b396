package waitlist

import (
	"strings"

	"github.com/launchline/go-waitlist-kit/internal/models"
	"github.com/launchline/go-waitlist-kit/pkg/constants"
)

type JoinWaitlistRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Company string `json:"company" validate:"omitempty,max=255"`
	Role    string `json:"role" validate:"omitempty,max=255"`
}

type WaitlistEntryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
}

type JoinWaitlistResponse struct {
	Entry WaitlistEntryResponse `json:"entry"`
	// AlreadyRegistered distinguishes a fresh signup from a repeat of an
	// email already on the list. Both are successful outcomes.
	AlreadyRegistered bool `json:"already_registered"`
	TotalSignups      int  `json:"total_signups"`
}

// ========================================
// Mappers
// ========================================

// sanitized returns a copy with surrounding whitespace stripped from
// every field. The email keeps its casing; only normalization for the
// duplicate check lowers it.
func (req *JoinWaitlistRequest) sanitized() JoinWaitlistRequest {
	if req == nil {
		return JoinWaitlistRequest{}
	}
	return JoinWaitlistRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Company: strings.TrimSpace(req.Company),
		Role:    strings.TrimSpace(req.Role),
	}
}

func ToSignupFields(req *JoinWaitlistRequest) SignupFields {
	if req == nil {
		return SignupFields{}
	}
	return SignupFields{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Role:    req.Role,
	}
}

func ToWaitlistEntryResponse(entry models.WaitlistEntry) WaitlistEntryResponse {
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Name:      entry.Name,
		Email:     entry.Email,
		Company:   entry.Company,
		Role:      entry.Role,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}

func ToWaitlistEntryResponses(entries []models.WaitlistEntry) []WaitlistEntryResponse {
	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}
	return responses
}
