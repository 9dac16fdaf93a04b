package users

import (
	"net/http"

	"chartsense-app/database"
	"chartsense-app/internal/domain/entitlement"
	"chartsense-app/internal/domain/profiles"
	"chartsense-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if database.DB != nil {
		if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
	} else {
		user = users.User{ID: userID, Email: c.GetString("email"), Name: c.GetString("name")}
	}

	profile, err := entitlement.GetOrCreateProfile(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    buildUserDTO(user),
		"profile": buildProfileDTO(profile),
	})
}

// UpdateProfile lets the client adjust the displayed subscription fields.
// The usage counter is not writable from here.
func UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		SubscriptionStatus *string `json:"subscriptionStatus"`
		SubscriptionPlan   *string `json:"subscriptionPlan"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := entitlement.GetOrCreateProfile(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	updates := map[string]interface{}{}
	if input.SubscriptionStatus != nil {
		updates["subscription_status"] = *input.SubscriptionStatus
	}
	if input.SubscriptionPlan != nil {
		updates["subscription_plan"] = *input.SubscriptionPlan
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&profiles.Profile{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	updated, err := entitlement.GetOrCreateProfile(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload profile"})
		return
	}
	c.JSON(http.StatusOK, buildProfileDTO(updated))
}
