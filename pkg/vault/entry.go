package vault

import (
	"fmt"
	"strings"
)

// Entry is one stored credential. All fields are plain text.
type Entry struct {
	SiteApp  string `json:"site_app"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewEntry builds an Entry from values collected in label, username,
// password order.
func NewEntry(siteApp, username, password string) Entry {
	return Entry{
		SiteApp:  siteApp,
		Username: username,
		Password: password,
	}
}

// String renders the entry for display, password included.
func (e Entry) String() string {
	return fmt.Sprintf("Site/App: %s\n - Username: %s\n - Password: %s", e.SiteApp, e.Username, e.Password)
}

// Masked renders the entry like String with the password masked.
func (e Entry) Masked() string {
	return fmt.Sprintf("Site/App: %s\n - Username: %s\n - Password: %s", e.SiteApp, e.Username, MaskPassword(e.Password))
}

// MaskPassword hides all but the tail of a password.
// | Length  | Format          | Example   |
// |---------|-----------------|-----------|
// | 1-4     | All *           | ****      |
// | 5-8     | Show last 2     | ******XY  |
// | 9+      | Show last 4     | ****WXYZ  |
// Lengths count runes, not bytes.
func MaskPassword(password string) string {
	runes := []rune(password)
	length := len(runes)
	if length == 0 {
		return ""
	}

	switch {
	case length <= 4:
		return strings.Repeat("*", length)
	case length <= 8:
		return strings.Repeat("*", length-2) + string(runes[length-2:])
	default:
		return strings.Repeat("*", length-4) + string(runes[length-4:])
	}
}
