package models

import "time"

// User is a CRM account. Sales representatives are users with the sales
// role; SalesTarget and IncentivePerConversion only matter for them.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`

	SalesTarget            float64 `json:"sales_target"`
	IncentivePerConversion float64 `json:"incentive_per_conversion"`

	// refresh-token storage
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	// Telegram notification settings
	TelegramChatID int64 `json:"-"`
	NotifyTelegram bool  `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
