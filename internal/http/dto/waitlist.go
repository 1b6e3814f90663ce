package dto

import (
	"strconv"
	"time"

	"buildpad.app/concierge/internal/model"
)

type JoinWaitlistRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Source          string `json:"source" binding:"max=100"`
	InterestArea    string `json:"interest_area" binding:"max=100"`
	AcceptMarketing bool   `json:"accept_marketing"`
}

type WaitlistResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToWaitlistResponse(entry *model.WaitlistEntry) WaitlistResponse {
	return WaitlistResponse{
		ID:        strconv.FormatInt(entry.ID, 10),
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt,
	}
}
