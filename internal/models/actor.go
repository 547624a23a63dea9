package models

// Actor identifies who performs a mutating operation.
type Actor struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// DefaultActor is the implicit current user when none is supplied.
var DefaultActor = Actor{
	UserID:      "default-user",
	DisplayName: "Current User",
}

// OrDefault returns a, or DefaultActor when a carries no user ID.
func (a Actor) OrDefault() Actor {
	if a.UserID == "" {
		return DefaultActor
	}
	return a
}
