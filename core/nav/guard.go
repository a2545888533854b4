package nav

// Request is a single attempt to reach a location: the target path and a
// snapshot of the session state at request time.
type Request struct {
	Path       string
	HasSession bool
}

// Decision is the guard's outcome for one request. Terminal in one step;
// no retries.
type Decision int

const (
	Permitted Decision = iota
	RedirectToLogin
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Permitted:
		return "permitted"
	case RedirectToLogin:
		return "redirect-to-login"
	case NotFound:
		return "not-found"
	}
	return "unknown"
}

// Evaluate decides render-or-redirect for req. Public paths are always
// permitted, even with a session (no auto-redirect away from login). The
// decision is re-evaluated on every request; nothing is cached, since the
// session can change between requests.
func (r *Registry) Evaluate(req Request) Decision {
	if req.Path == LoginPath || req.Path == SignupPath {
		return Permitted
	}
	if !req.HasSession {
		return RedirectToLogin
	}
	if _, ok := r.Resolve(req.Path); !ok {
		return NotFound
	}
	return Permitted
}
