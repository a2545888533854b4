package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/volatiletech/null/v8"

	"github.com/omaradel/manaboard/core"
)

// Status classifies the outcome of a gateway operation. Transport-level
// outcomes are translated exactly once, at the gateway boundary; callers
// branch on the status instead of unwrapping errors.
type Status int

const (
	Success Status = iota
	InvalidCredentials
	NetworkOrServerError
)

// Result is the typed outcome of Login, Signup and Logout.
type Result struct {
	Status  Status
	Token   string // set on Login success only
	Message string // remote or transport message, for UI feedback
}

func (r Result) OK() bool { return r.Status == Success }

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true)
	return core.Validate.Struct(c)
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// Profile is the signup payload. The remote API really does expect the
// misspelled `gander` field.
type Profile struct {
	Name            string    `json:"name" validate:"required,min=2"`
	Email           string    `json:"email" validate:"required,email"`
	Password        string    `json:"password" validate:"required,password_"`
	ConfirmPassword string    `json:"cpassword" validate:"required,eqfield=Password"`
	Phone           string    `json:"phone" validate:"required,phone_"`
	Age             int       `json:"age" validate:"required,min=1,max=120"`
	Gender          string    `json:"gander" validate:"required,oneof=male female other"`
	Role            string    `json:"role" validate:"required,oneof=parent student teacher managment"`
	DOB             time.Time `json:"DOB" validate:"required,notfuture"`
	ProfilePic      *Upload   `json:"profilePic" validate:"required"`
}

func (p *Profile) Validate() error {
	p.Email = core.CleanString(p.Email, true)
	p.Name = core.CleanString(p.Name)
	return core.Validate.Struct(p)
}

// ProfileData is what the remote API reports about the logged-in operator;
// it drives the dashboard shell header.
type ProfileData struct {
	Name       string      `json:"name"`
	Role       string      `json:"role"`
	ProfilePic null.String `json:"profilePic"`
}

// apiResponse is the remote API's envelope: a success flag, an optional
// message and an op-specific data payload.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Token string `json:"token"`
		ProfileData
	} `json:"data"`
}

// TokenInfo is the unverified content of a session token, for display only.
// The client never judges token validity from it (the remote API owns that).
type TokenInfo struct {
	Subject   string
	Name      string
	Role      string
	ExpiresAt null.Time
}

// PeekToken decodes token claims without verifying the signature.
func PeekToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, err
	}
	info := TokenInfo{}
	if sub, ok := claims["sub"].(string); ok {
		info.Subject = sub
	}
	if name, ok := claims["name"].(string); ok {
		info.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		info.ExpiresAt = null.TimeFrom(time.Unix(int64(exp), 0))
	}
	return info, nil
}
