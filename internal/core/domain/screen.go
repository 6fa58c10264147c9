package domain

import "strings"

// Access classifies who may render a screen.
type Access string

const (
	AccessPublic    Access = "public"
	AccessAuthOnly  Access = "auth_only" // only while logged out
	AccessProtected Access = "protected" // only while logged in
)

const (
	PathHome     = "/"
	PathAbout    = "/about"
	PathCourses  = "/courses"
	PathContacts = "/contacts"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathLogout   = "/logout"
	PathCart     = "/cart"
	PathProfile  = "/profile"
)

var screenAccess = map[string]Access{
	PathHome:     AccessPublic,
	PathAbout:    AccessPublic,
	PathCourses:  AccessPublic,
	PathContacts: AccessPublic,
	PathLogin:    AccessAuthOnly,
	PathRegister: AccessAuthOnly,
	PathLogout:   AccessProtected,
	PathCart:     AccessProtected,
	PathProfile:  AccessProtected,
}

// subScreens are the only paths below a screen that exist. ":id" matches a
// positive decimal id.
var subScreens = []struct {
	pattern []string
	access  Access
}{
	{[]string{"courses", ":id"}, AccessPublic},
	{[]string{"courses", ":id", "cart"}, AccessPublic},
	{[]string{"cart", "checkout"}, AccessProtected},
	{[]string{"cart", ":id"}, AccessProtected},
}

// AccessFor classifies path. ok is false for every path that is neither a
// screen nor one of its known sub-paths, e.g. /about/team.
func AccessFor(path string) (access Access, ok bool) {
	path = strings.Trim(path, "/")
	if path == "" {
		return AccessPublic, true
	}
	if a, found := screenAccess["/"+path]; found {
		return a, true
	}

	segments := strings.Split(path, "/")
	for _, sub := range subScreens {
		if matchSegments(sub.pattern, segments) {
			return sub.access, true
		}
	}
	return "", false
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p == ":id" {
			if !isID(segments[i]) {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}

func isID(s string) bool {
	if s == "" || s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Decision is the outcome of a route guard evaluation.
type Decision struct {
	// Path is the screen that ends up rendered: the requested one, or the
	// redirect target.
	Path     string
	Redirect bool
}

// Render lets the requested screen through.
func Render(path string) Decision { return Decision{Path: path} }

// RedirectTo sends the navigation to path instead.
func RedirectTo(path string) Decision { return Decision{Path: path, Redirect: true} }
