package session

import "strings"

// User is the record kept in a session.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Destination tells the caller where to send the browser after a login
// attempt.
type Destination int

const (
	DestinationLogin Destination = iota
	DestinationOnboarding
	DestinationMain
)

// The accepted credentials are a fixed placeholder, not a security model.
// Replace with real credential storage before exposing this anywhere.
const (
	onboardingLogin = "newuser"
	adminLogin      = "admin"
	adminPassword   = "terry"
)

// Outcome is the result of Authenticate.
type Outcome struct {
	OK          bool
	User        User
	Destination Destination
}

// Authenticate checks a login attempt. "newuser" (any case, any password)
// is admitted for onboarding; admin with the fixed password gets the main
// page; everything else is rejected.
func Authenticate(login, password string) Outcome {
	switch {
	case strings.EqualFold(login, onboardingLogin):
		return Outcome{
			OK:          true,
			User:        User{Login: onboardingLogin, Name: "New User"},
			Destination: DestinationOnboarding,
		}
	case login == adminLogin && password == adminPassword:
		return Outcome{
			OK:          true,
			User:        User{Login: adminLogin, Name: "Admin"},
			Destination: DestinationMain,
		}
	default:
		return Outcome{Destination: DestinationLogin}
	}
}

// IsOnboarding reports whether u still has to go through onboarding.
func (u User) IsOnboarding() bool {
	return u.Login == onboardingLogin
}
