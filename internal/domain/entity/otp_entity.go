package entity

import "time"

// UserOTP is a single issued one-time code. CodeHash holds the bcrypt hash of
// the 6-digit code; the plaintext exists only in the email that delivered it.
// Email is denormalized so verification keeps working mid-email-change.
//
// A record is redeemable while Used is false and ExpiresAt is in the future.
// Rows are kept after use or expiry; history is never purged here.
type UserOTP struct {
	ID        string
	UserID    string
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
