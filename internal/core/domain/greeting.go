package domain

import "time"

// Greeting is the time-of-day welcome line shown on the dashboard
type Greeting struct {
	Message string `json:"message"`
	Day     string `json:"day"`
	Time    string `json:"time"`
}

// GreetingMessage picks the salutation for an hour of the day and appends the user's name when known
func GreetingMessage(hour int, userName string) string {
	msg := "Welcome!"
	switch {
	case hour >= 5 && hour < 12:
		msg = "Good Morning!"
	case hour >= 12 && hour < 17:
		msg = "Good Afternoon!"
	case hour >= 17 || hour < 5:
		msg = "Good Evening!"
	}
	if userName != "" {
		msg += " " + userName
	}
	return msg
}

// NewGreeting builds the greeting for a moment in the caller's local time
func NewGreeting(now time.Time, userName string) Greeting {
	return Greeting{
		Message: GreetingMessage(now.Hour(), userName),
		Day:     now.Format("Monday, January 2, 2006"),
		Time:    now.Format("03:04 PM"),
	}
}
