package client

import (
	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// Access is what a route requires of the signed-in user.
type Access int

const (
	Public Access = iota
	StudentOnly
	AdminOnly
)

// Route is a client-side page.
type Route struct {
	Path   string
	Access Access
}

var (
	RouteLanding          = Route{"/", Public}
	RouteLogin            = Route{"/login", Public}
	RouteEnroll           = Route{"/enroll", Public}
	RouteAdminPortal      = Route{"/admin/portal", Public}
	RouteStudentDashboard = Route{"/dashboard", StudentOnly}
	RouteAdminDashboard   = Route{"/admin/dashboard", AdminOnly}
)

// Viewer is the guard's view of a session.
type Viewer int

const (
	Anonymous Viewer = iota
	StudentViewer
	AdminViewer
)

func ViewerOf(s Session) Viewer {
	switch {
	case !s.IsAuthenticated():
		return Anonymous
	case s.User.Role == models.RoleAdmin:
		return AdminViewer
	default:
		return StudentViewer
	}
}

// Decision is either Allow or a redirect target.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision            { return Decision{Allow: true} }
func redirect(to Route) Decision { return Decision{RedirectTo: to.Path} }

func (d Decision) String() string {
	if d.Allow {
		return "allow"
	}
	return "redirect " + d.RedirectTo
}

// Guard decides whether the session may open route. It only shapes navigation;
// the server enforces roles on every request.
func Guard(s Session, route Route) Decision {
	viewer := ViewerOf(s)

	switch route.Access {
	case AdminOnly:
		switch viewer {
		case Anonymous:
			return redirect(RouteAdminPortal)
		case StudentViewer:
			return redirect(RouteStudentDashboard)
		}
	case StudentOnly:
		switch viewer {
		case Anonymous:
			return redirect(RouteLogin)
		case AdminViewer:
			return redirect(RouteAdminDashboard)
		}
	}
	return allow()
}
