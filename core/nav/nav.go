// Package nav holds the static navigation model for the protected area and
// the guard deciding whether a navigation request may proceed.
package nav

import "github.com/pkg/errors"

// Public paths, reachable without a session.
const (
	LoginPath  = "login"
	SignupPath = "signup"
)

// LogoutPath is a pseudo-destination: activating it triggers a remote logout
// and a redirect to login instead of rendering a view.
const LogoutPath = "logout"

// Destination is one navigable location in the protected area.
type Destination struct {
	Label string
	Path  string // relative to the protected root, exact match only
	Icon  string // presentational hint for the menu
}

// Group is an ordered set of menu entries; ungrouped entries (attendance,
// logout) live in a group with an empty label.
type Group struct {
	Label string
	Items []Destination
}

// Registry is the static set of destinations; it drives both the rendered
// menu and the guard's allow-list. It is configuration, never mutated.
type Registry struct {
	groups []Group
	byPath map[string]Destination
}

// NewRegistry builds a registry, rejecting duplicate paths.
func NewRegistry(groups ...Group) (*Registry, error) {
	r := &Registry{
		groups: groups,
		byPath: make(map[string]Destination),
	}
	for _, g := range groups {
		for _, d := range g.Items {
			if d.Path == "" {
				return nil, errors.Errorf("nav: destination %q has no path", d.Label)
			}
			if _, dup := r.byPath[d.Path]; dup {
				return nil, errors.Errorf("nav: duplicate path %q", d.Path)
			}
			r.byPath[d.Path] = d
		}
	}
	return r, nil
}

// Groups returns the menu groups in display order.
func (r *Registry) Groups() []Group {
	return r.groups
}

// Resolve looks a destination up by exact path; no prefix or wildcard
// matching.
func (r *Registry) Resolve(path string) (Destination, bool) {
	d, ok := r.byPath[path]
	return d, ok
}

// Default returns the portal's sidebar model.
func Default() *Registry {
	r, err := NewRegistry(
		Group{Label: "Users", Items: []Destination{
			{Label: "Add User", Path: "users/add", Icon: "group"},
			{Label: "Get All Users", Path: "users", Icon: "group"},
		}},
		Group{Label: "Students", Items: []Destination{
			{Label: "Add Student", Path: "students/add", Icon: "school"},
			{Label: "Get All Students", Path: "students", Icon: "school"},
		}},
		Group{Label: "Teachers", Items: []Destination{
			{Label: "Add Teacher", Path: "teachers/add", Icon: "person"},
			{Label: "Get All Teachers", Path: "teachers", Icon: "person"},
		}},
		Group{Label: "Parents", Items: []Destination{
			{Label: "Add Parent", Path: "parents/add", Icon: "family"},
			{Label: "Get All Parents", Path: "parents", Icon: "family"},
		}},
		Group{Label: "Class", Items: []Destination{
			{Label: "Add Class", Path: "class/add", Icon: "class"},
			{Label: "Get All Classes", Path: "class", Icon: "class"},
		}},
		Group{Label: "Subjects", Items: []Destination{
			{Label: "Add Subject", Path: "subjects/add", Icon: "subject"},
			{Label: "Get All Subjects", Path: "subjects", Icon: "subject"},
		}},
		Group{Label: "Schedules", Items: []Destination{
			{Label: "Add Schedule", Path: "schedules/add", Icon: "schedule"},
			{Label: "Get All Schedules", Path: "schedules", Icon: "schedule"},
		}},
		Group{Label: "Reports", Items: []Destination{
			{Label: "Add Report", Path: "reports/add", Icon: "assessment"},
			{Label: "Get All Reports", Path: "reports", Icon: "assessment"},
		}},
		Group{Items: []Destination{
			{Label: "Attendance", Path: "attendance", Icon: "event"},
		}},
		Group{Items: []Destination{
			{Label: "Logout", Path: LogoutPath, Icon: "logout"},
		}},
	)
	if err != nil { // static data; cannot happen
		panic(err)
	}
	return r
}
