package users

import (
	"time"

	"chartsense-app/internal/domain/profiles"
	"chartsense-app/internal/domain/users"
)

type UserDTO struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	AuthProvider string     `json:"authProvider"`
	LastSignedIn *time.Time `json:"lastSignedIn"`
}

type ProfileDTO struct {
	SubscriptionStatus string     `json:"subscriptionStatus"`
	SubscriptionPlan   *string    `json:"subscriptionPlan"`
	SubscriptionEndsAt *time.Time `json:"subscriptionEndsAt"`
	AnalysisCount      int        `json:"analysisCount"`
}

func buildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		LastSignedIn: u.LastSignedIn,
	}
}

// A nil profile (store unavailable) renders as a fresh free-tier profile.
func buildProfileDTO(p *profiles.Profile) ProfileDTO {
	if p == nil {
		return ProfileDTO{SubscriptionStatus: profiles.StatusFree}
	}
	return ProfileDTO{
		SubscriptionStatus: p.SubscriptionStatus,
		SubscriptionPlan:   p.SubscriptionPlan,
		SubscriptionEndsAt: p.SubscriptionEndsAt,
		AnalysisCount:      p.AnalysisCount,
	}
}
