// Package authz holds the ownership and role decisions for every resource
// kind. Decisions are pure predicates over already-loaded records; callers
// translate a false result into 401/403/404 as appropriate.
package authz

import (
	"github.com/quillhub/quillhub-backend/models"
)

// Action is the operation a principal is attempting.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Kind identifies the resource type under decision.
type Kind int

const (
	KindBlog Kind = iota
	KindPost
	KindTag
	KindUser
)

// Allowed reports whether the principal may perform the action on the given
// resource kind. object is the loaded record for object-level checks and
// nil for collection-level ones (list, create). A nil principal is always
// rejected; superusers always pass.
func Allowed(principal *models.User, action Action, kind Kind, object any) bool {
	if principal == nil {
		return false
	}
	if principal.IsSuperuser {
		return true
	}

	switch kind {
	case KindBlog:
		if action == ActionRead || action == ActionCreate {
			return true
		}
		blog, ok := object.(*models.Blog)
		return ok && blog.UserID == principal.ID
	case KindPost:
		if action == ActionRead || action == ActionCreate {
			return true
		}
		post, ok := object.(*models.Post)
		return ok && post.Blog.UserID == principal.ID
	case KindTag:
		return action == ActionRead
	case KindUser:
		if action != ActionRead {
			return false
		}
		if object == nil {
			// Collection-level: every authenticated principal may list,
			// the queryset is scoped to themselves.
			return true
		}
		user, ok := object.(*models.User)
		return ok && user.ID == principal.ID
	}
	return false
}
