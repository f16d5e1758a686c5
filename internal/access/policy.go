package access

import (
	"github.com/frahmantamala/dashboard-portal/internal"
)

// Policy answers per-resource questions that the route-level admin check
// cannot.
type Policy struct{}

// CanViewProject lets admins see every project and other users only the
// projects they were granted.
func (Policy) CanViewProject(p *internal.Principal, projectID string) error {
	if p == nil || p.ID == "" {
		return internal.ErrAuthentication
	}
	if p.IsAdmin || p.HasProject(projectID) {
		return nil
	}
	return internal.ErrProjectForbidden
}
