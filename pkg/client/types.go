package client

import "time"

// Session is the authenticated state attached to every call.
type Session struct {
	Token string
	User  SessionUser
}

type SessionUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"isAdmin"`
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type CompanyRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UserRef struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Project covers every project shape the API returns; fields a given
// endpoint does not expand are left zero.
type Project struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	DashboardURL string      `json:"powerbi_link"`
	CompanyID    string      `json:"companyId"`
	Company      *CompanyRef `json:"company"`
	Users        []UserRef   `json:"users"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Company struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Projects    []Project `json:"projects"`
	Users       []UserRef `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProfileCompany struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Projects    []Project `json:"projects"`
}

type Profile struct {
	ID        string           `json:"_id"`
	Email     string           `json:"email"`
	IsAdmin   bool             `json:"isAdmin"`
	Companies []ProfileCompany `json:"companies"`
	Projects  []Project        `json:"projects"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Account is a user as listed by administrators.
type Account struct {
	ID        string       `json:"_id"`
	Email     string       `json:"email"`
	IsAdmin   bool         `json:"isAdmin"`
	Companies []CompanyRef `json:"companies"`
	Projects  []Project    `json:"projects"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type CompanyInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProjectInput struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DashboardURL string `json:"powerbi_link"`
	Company      string `json:"company"`
}

type UserInput struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	IsAdmin   bool     `json:"isAdmin"`
	Companies []string `json:"companies,omitempty"`
	Projects  []string `json:"projects,omitempty"`
}

// Grant replaces a user's companies and projects.
type Grant struct {
	Companies []string `json:"companies,omitempty"`
	Projects  []string `json:"projects,omitempty"`
}
