package account

import (
	"regexp"
	"time"

	"github.com/odonto/clinica/internal/platform/validation"
)

// User maps to the auth_user table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
}

// Summary is the user block returned with a login.
type Summary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Email: u.Email, FirstName: u.FirstName}
}

// LoginInput holds the credentials. Passwords are never trimmed.
type LoginInput struct {
	Username validation.Field[string] `json:"username"`
	Password validation.Field[string] `json:"password"`
}

func (in *LoginInput) Validate() validation.Errors {
	e := validation.New()
	e.Text("username", &in.Username, false, validation.Rule{Required: true})
	if validation.Present(e, "password", in.Password, false) && in.Password.Value == "" {
		e.Add("password", validation.MsgBlank)
	}
	return e
}

type RefreshInput struct {
	Refresh validation.Field[string] `json:"refresh"`
}

func (in *RefreshInput) Validate() validation.Errors {
	e := validation.New()
	e.Text("refresh", &in.Refresh, false, validation.Rule{Required: true})
	return e
}

// LoginResult is the login response body.
type LoginResult struct {
	Refresh string  `json:"refresh"`
	Access  string  `json:"access"`
	User    Summary `json:"user"`
}

// CreateParams provisions an account from the command line.
type CreateParams struct {
	Username  string
	Email     string
	FirstName string
	Password  string
	Inactive  bool
}

const MinPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func (p *CreateParams) Validate() validation.Errors {
	e := validation.New()
	if e.Required("username", p.Username) {
		e.MaxLen("username", p.Username, 150)
		e.Match("username", p.Username, usernamePattern,
			"Informe um nome de usuário válido. Este valor pode conter apenas letras, números e os seguintes caracteres @/./+/-/_.")
	}
	if p.Email != "" {
		e.Email("email", p.Email)
	}
	e.MaxLen("first_name", p.FirstName, 150)
	if len([]rune(p.Password)) < MinPasswordLength {
		e.Add("password", "Esta senha é muito curta. Ela precisa conter pelo menos 8 caracteres.")
	}
	return e
}
