package user

import "fmt"

// User is a chat participant identified by the numeric identity the
// transport assigns (Telegram user id). Users are created on first
// contact; admins are flagged via IsAdmin.
type User struct {
	telegramID int64
	username   string
	fullName   string
	isAdmin    bool
}

func NewUser(telegramID int64, username, fullName string, isAdmin bool) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram ID is required")
	}
	if len(username) > 30 {
		return nil, fmt.Errorf("username exceeds maximum length of 30 characters")
	}
	if len(fullName) > 100 {
		return nil, fmt.Errorf("full name exceeds maximum length of 100 characters")
	}
	if username == "" {
		username = "unknown_user"
	}

	return &User{
		telegramID: telegramID,
		username:   username,
		fullName:   fullName,
		isAdmin:    isAdmin,
	}, nil
}

func ReconstructUser(telegramID int64, username, fullName string, isAdmin bool) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram ID is required")
	}
	return &User{
		telegramID: telegramID,
		username:   username,
		fullName:   fullName,
		isAdmin:    isAdmin,
	}, nil
}

func (u *User) TelegramID() int64 {
	return u.telegramID
}

func (u *User) Username() string {
	return u.username
}

func (u *User) FullName() string {
	return u.fullName
}

func (u *User) IsAdmin() bool {
	return u.isAdmin
}

// DisplayName returns the best available name for notifications.
func (u *User) DisplayName() string {
	if u.username != "" && u.username != "unknown_user" {
		return u.username
	}
	if u.fullName != "" {
		return u.fullName
	}
	return fmt.Sprintf("user %d", u.telegramID)
}

// RefreshProfile updates display data from the latest inbound message.
// Returns true when anything changed and the record needs persisting.
func (u *User) RefreshProfile(username, fullName string) bool {
	changed := false
	if username != "" && username != u.username {
		u.username = username
		changed = true
	}
	if fullName != "" && fullName != u.fullName {
		u.fullName = fullName
		changed = true
	}
	return changed
}

// MarkAdmin flags the user as an administrator.
func (u *User) MarkAdmin() {
	u.isAdmin = true
}
