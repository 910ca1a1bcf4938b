package models

type User struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Locations []Location `json:"locations,omitempty"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	Token       string   `json:"token"`
	User        User     `json:"user"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
