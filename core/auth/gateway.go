// Package auth wraps the remote school-management authentication API.
// Every transport outcome is normalized into a typed Result at this
// boundary; nothing beyond this package inspects HTTP statuses.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/session"
)

const (
	signinPath  = "/signin"
	signupPath  = "/adduser"
	logoutPath  = "/logout"
	profilePath = "/mana/profiledata"

	tokenHeader = "token"
)

type Gateway struct {
	baseURL string
	client  *http.Client
	store   *session.Store
}

func NewGateway(conf *core.Config, store *session.Store) *Gateway {
	return &Gateway{
		baseURL: conf.RemoteAPI,
		client: &http.Client{
			Timeout:   conf.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store: store,
	}
}

// Login exchanges credentials for a token. On success the token is stored
// in the session before the result is returned.
func (g *Gateway) Login(ctx context.Context, creds Credentials) Result {
	body, err := json.Marshal(creds)
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+signinPath, bytes.NewReader(body))
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	res := g.do(req)
	if !res.OK() {
		return res
	}
	if res.Token == "" {
		// success flag without a token is a remote contract violation
		return Result{Status: NetworkOrServerError, Message: "login response missing token"}
	}
	if err := g.store.SetToken(res.Token); err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	return res
}

// Signup registers a new account via the remote multipart endpoint. It never
// sets a session; the user logs in afterward.
func (g *Gateway) Signup(ctx context.Context, profile Profile) Result {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":      profile.Name,
		"email":     profile.Email,
		"password":  profile.Password,
		"cpassword": profile.ConfirmPassword,
		"phone":     profile.Phone,
		"age":       strconv.Itoa(profile.Age),
		"gander":    profile.Gender, // sic, per the remote API
		"role":      profile.Role,
		"DOB":       profile.DOB.Format("2006-01-02"),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return Result{Status: NetworkOrServerError, Message: err.Error()}
		}
	}
	if profile.ProfilePic != nil {
		fw, err := w.CreateFormFile("profilePic", profile.ProfilePic.Filename)
		if err != nil {
			return Result{Status: NetworkOrServerError, Message: err.Error()}
		}
		if _, err := fw.Write(profile.ProfilePic.Content); err != nil {
			return Result{Status: NetworkOrServerError, Message: err.Error()}
		}
	}
	if err := w.Close(); err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+signupPath, &buf)
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return g.do(req)
}

// Logout invalidates the remote session. The local session is cleared
// unconditionally before returning, so a failing remote call can never leave
// a stale token behind; the result is informational only.
func (g *Gateway) Logout(ctx context.Context) Result {
	defer g.store.ClearToken()

	token := g.store.Token()
	if token == "" {
		return Result{Status: Success}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+logoutPath, nil)
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	req.Header.Set(tokenHeader, token)

	res := g.do(req)
	if res.Status == InvalidCredentials {
		// a rejected/stale token is as logged-out as it gets
		return Result{Status: Success}
	}
	return res
}

// Profile fetches the logged-in operator's profile data.
func (g *Gateway) Profile(ctx context.Context) (ProfileData, error) {
	token := g.store.Token()
	if token == "" {
		return ProfileData{}, errors.New("not authenticated")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+profilePath, nil)
	if err != nil {
		return ProfileData{}, errors.Wrap(err, "building profile request")
	}
	req.Header.Set(tokenHeader, token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return ProfileData{}, errors.Wrap(err, "fetching profile")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return ProfileData{}, errors.Errorf("fetching profile: %s", resp.Status)
	}
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ProfileData{}, errors.Wrap(err, "decoding profile response")
	}
	return body.Data.ProfileData, nil
}

// do runs the request and classifies the outcome:
// 2xx + success flag -> Success; 2xx without the flag or any 4xx ->
// InvalidCredentials; transport failure or 5xx -> NetworkOrServerError.
func (g *Gateway) do(req *http.Request) Result {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: NetworkOrServerError, Message: err.Error()}
	}
	var body apiResponse
	_ = json.Unmarshal(raw, &body) // tolerate non-JSON bodies; flags stay zero

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return Result{Status: NetworkOrServerError, Message: messageOr(body.Message, resp.Status)}
	case resp.StatusCode >= http.StatusBadRequest:
		return Result{Status: InvalidCredentials, Message: messageOr(body.Message, resp.Status)}
	case !body.Success:
		return Result{Status: InvalidCredentials, Message: messageOr(body.Message, "request rejected")}
	default:
		return Result{Status: Success, Token: body.Data.Token, Message: body.Message}
	}
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
