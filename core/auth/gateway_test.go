package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/session"
)

type memRepo struct {
	sess session.Session
}

func (r *memRepo) Load() (session.Session, error) { return r.sess, nil }
func (r *memRepo) Save(s session.Session) error   { r.sess = s; return nil }
func (r *memRepo) Clear() error                   { r.sess = session.Session{}; return nil }

func newGateway(t *testing.T, handler http.Handler) (*Gateway, *session.Store, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{RemoteAPI: srv.URL, RequestTimeout: 5 * time.Second}
	store := session.NewStore(&memRepo{})
	return NewGateway(conf, store), store, srv
}

func TestGateway_Login(t *testing.T) {
	type remote struct {
		status  int
		success bool
		token   string
		message string
	}
	tests := []struct {
		name       string
		remote     remote
		wantStatus Status
		wantToken  string
	}{
		{
			name:       "success",
			remote:     remote{status: http.StatusOK, success: true, token: "tok-1"},
			wantStatus: Success,
			wantToken:  "tok-1",
		},
		{
			name:       "success flag false",
			remote:     remote{status: http.StatusOK, message: "wrong password"},
			wantStatus: InvalidCredentials,
		},
		{
			name:       "4xx",
			remote:     remote{status: http.StatusUnauthorized, message: "unknown account"},
			wantStatus: InvalidCredentials,
		},
		{
			name:       "5xx",
			remote:     remote{status: http.StatusBadGateway},
			wantStatus: NetworkOrServerError,
		},
		{
			name:       "success without token",
			remote:     remote{status: http.StatusOK, success: true},
			wantStatus: NetworkOrServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, store, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/signin", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

				var creds Credentials
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "admin@school.cd", creds.Email)

				w.WriteHeader(tt.remote.status)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": tt.remote.success,
					"message": tt.remote.message,
					"data":    map[string]string{"token": tt.remote.token},
				})
			}))

			res := gw.Login(context.Background(), Credentials{Email: "admin@school.cd", Password: "pwd"})
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantToken, store.Token())
			if tt.remote.message != "" {
				assert.Equal(t, tt.remote.message, res.Message)
			}
		})
	}
}

func TestGateway_Login_networkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	conf := &core.Config{RemoteAPI: srv.URL, RequestTimeout: time.Second}
	store := session.NewStore(&memRepo{})
	gw := NewGateway(conf, store)

	res := gw.Login(context.Background(), Credentials{Email: "a@b.cd", Password: "pwd"})
	assert.Equal(t, NetworkOrServerError, res.Status)
	assert.False(t, store.Authenticated())
}

func TestGateway_Signup(t *testing.T) {
	var gotFields map[string]string
	gw, store, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/adduser", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(4<<20))

		gotFields = map[string]string{}
		for name, vals := range r.MultipartForm.Value {
			gotFields[name] = vals[0]
		}
		_, fh, err := r.FormFile("profilePic")
		assert.NoError(t, err)
		assert.Equal(t, "me.png", fh.Filename)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))

	res := gw.Signup(context.Background(), Profile{
		Name:            "Omar",
		Email:           "omar@school.cd",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
		Phone:           "0123456789",
		Age:             30,
		Gender:          "male",
		Role:            "managment",
		DOB:             time.Date(1995, 4, 2, 0, 0, 0, 0, time.UTC),
		ProfilePic:      &Upload{Filename: "me.png", Content: []byte("png")},
	})

	assert.True(t, res.OK())
	// signup never sets a session
	assert.False(t, store.Authenticated())

	// the remote really expects `gander`
	assert.Equal(t, "male", gotFields["gander"])
	assert.Equal(t, "1995-04-02", gotFields["DOB"])
	assert.Equal(t, "30", gotFields["age"])
	assert.NotContains(t, gotFields, "gender")
}

func TestGateway_Logout(t *testing.T) {
	tests := []struct {
		name         string
		remoteStatus int
		wantStatus   Status
	}{
		{name: "remote ok", remoteStatus: http.StatusOK, wantStatus: Success},
		// local session goes away even when the remote call fails
		{name: "remote 5xx", remoteStatus: http.StatusInternalServerError, wantStatus: NetworkOrServerError},
		// a rejected token is as logged-out as it gets
		{name: "remote rejects token", remoteStatus: http.StatusUnauthorized, wantStatus: Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, store, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/logout", r.URL.Path)
				assert.Equal(t, "tok-1", r.Header.Get("token"))
				w.WriteHeader(tt.remoteStatus)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": tt.remoteStatus == http.StatusOK})
			}))
			assert.NoError(t, store.SetToken("tok-1"))

			res := gw.Logout(context.Background())
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.False(t, store.Authenticated())
		})
	}
}

func TestGateway_Logout_noToken(t *testing.T) {
	gw, store, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote must not be called without a token")
	}))

	res := gw.Logout(context.Background())
	assert.True(t, res.OK())
	assert.False(t, store.Authenticated())
}

func TestGateway_Profile(t *testing.T) {
	gw, store, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mana/profiledata", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("token"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]string{"name": "Omar", "role": "managment", "profilePic": "http://x/me.png"},
		})
	}))
	assert.NoError(t, store.SetToken("tok-1"))

	profile, err := gw.Profile(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Omar", profile.Name)
	assert.Equal(t, "managment", profile.Role)
	assert.Equal(t, "http://x/me.png", profile.ProfilePic.String)

	store.ClearToken()
	_, err = gw.Profile(context.Background())
	assert.Error(t, err)
}
