package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/nav"
	"github.com/omaradel/manaboard/core/session"
)

const dobFormat = "2006-01-02"

type authApi struct {
	store   *session.Store
	gateway *auth.Gateway
}

// RegisterPublic mounts the views reachable without a session. They render
// unconditionally: an authenticated user opening /login still gets the
// login view (no auto-redirect away from it).
func RegisterPublic(e *echo.Echo, store *session.Store, gateway *auth.Gateway) {
	api := authApi{store: store, gateway: gateway}

	e.GET("/", api.loginView)
	e.GET("/"+nav.LoginPath, api.loginView)
	e.POST("/"+nav.LoginPath, api.login)
	e.GET("/"+nav.SignupPath, api.signupView)
	e.POST("/"+nav.SignupPath, api.signup)
}

// Handlers

func (api *authApi) loginView(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login.html", echo.Map{
		"Notice": ctx.QueryParam("notice"),
	})
}

func (api *authApi) login(ctx echo.Context) error {
	creds := auth.Credentials{
		Email:    ctx.FormValue("email"),
		Password: ctx.FormValue("password"),
	}
	if err := creds.Validate(); err != nil {
		return api.renderLoginErr(ctx, creds, err)
	}

	res := api.gateway.Login(ctx.Request().Context(), creds)
	switch res.Status {
	case auth.Success:
		return ctx.Redirect(http.StatusSeeOther, "/dashboard/users")
	case auth.InvalidCredentials:
		// user-correctable; surfaced inline, never retried automatically
		return ctx.Render(http.StatusOK, "login.html", echo.Map{
			"Error": res.Message,
			"Email": creds.Email,
		})
	default:
		return ctx.Render(http.StatusOK, "login.html", echo.Map{
			"Notice": res.Message,
			"Email":  creds.Email,
		})
	}
}

func (api *authApi) renderLoginErr(ctx echo.Context, creds auth.Credentials, err error) error {
	fldErrs, ok := fieldErrors(err)
	if !ok {
		return err
	}
	return ctx.Render(http.StatusOK, "login.html", echo.Map{
		"FieldErrors": fldErrs,
		"Email":       creds.Email,
	})
}

func (api *authApi) signupView(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "signup.html", echo.Map{})
}

func (api *authApi) signup(ctx echo.Context) error {
	profile, err := bindProfile(ctx)
	if err == nil {
		err = profile.Validate()
	}
	if err != nil {
		fldErrs, ok := fieldErrors(err)
		if !ok {
			return err
		}
		return ctx.Render(http.StatusOK, "signup.html", echo.Map{
			"FieldErrors": fldErrs,
			"Profile":     profile,
		})
	}

	// signup never sets a session; the user logs in afterward
	res := api.gateway.Signup(ctx.Request().Context(), profile)
	switch res.Status {
	case auth.Success:
		return ctx.Redirect(http.StatusSeeOther, "/"+nav.LoginPath+"?notice=User+registered+successfully")
	case auth.InvalidCredentials:
		return ctx.Render(http.StatusOK, "signup.html", echo.Map{
			"Error":   res.Message,
			"Profile": profile,
		})
	default:
		return ctx.Render(http.StatusOK, "signup.html", echo.Map{
			"Notice":  res.Message,
			"Profile": profile,
		})
	}
}

func bindProfile(ctx echo.Context) (auth.Profile, error) {
	profile := auth.Profile{
		Name:            ctx.FormValue("name"),
		Email:           ctx.FormValue("email"),
		Password:        ctx.FormValue("password"),
		ConfirmPassword: ctx.FormValue("cpassword"),
		Phone:           ctx.FormValue("phone"),
		Gender:          ctx.FormValue("gender"),
		Role:            ctx.FormValue("role"),
	}
	if age := ctx.FormValue("age"); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return profile, core.NewValidationError(nil, core.FieldError{Field: "age", Error: "must be a number"})
		}
		profile.Age = n
	}
	if dob := ctx.FormValue("DOB"); dob != "" {
		t, err := time.Parse(dobFormat, dob)
		if err != nil {
			return profile, core.NewValidationError(nil, core.FieldError{Field: "DOB", Error: "invalid date"})
		}
		profile.DOB = t
	}

	fh, err := ctx.FormFile("profilePic")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return profile, errors.Wrap(err, "opening profile picture")
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return profile, errors.Wrap(err, "reading profile picture")
		}
		profile.ProfilePic = &auth.Upload{Filename: fh.Filename, Content: content}
	}
	return profile, nil
}

// fieldErrors translates validation failures for inline form rendering.
func fieldErrors(err error) (map[string]string, bool) {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fldErrs := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
		}
		return fldErrs, true
	case *core.ValidationError:
		fldErrs := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			fldErrs[fErr.Field] = fErr.Error
		}
		return fldErrs, true
	}
	return nil, false
}
