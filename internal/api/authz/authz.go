// Package authz resolves whether an actor may perform an action on a
// resource kind. Rules live in one static table so the whole authorization
// matrix is readable in a single place; ownership is a separate predicate
// applied on top for object-level checks.
package authz

import "reviewdb/internal/api/models"

type Resource string

const (
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceTitle    Resource = "title"
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceUser     Resource = "user"
)

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Pseudo-role granted to any request, authenticated or not.
const roleAnyone = "*"

// Pseudo-role granted to any authenticated actor regardless of role value.
const roleAuthenticated = "@"

// rules maps (resource, action) to the set of roles allowed to attempt it.
// Membership in any listed role grants access. Object-level ownership for
// review/comment partial_update and the /users/me contract are handled by
// CanModify and the user service, not here.
var rules = map[Resource]map[Action][]string{
	ResourceReview: {
		ActionList:          {roleAnyone},
		ActionRetrieve:      {roleAnyone},
		ActionCreate:        {models.RoleUser, models.RoleModerator, models.RoleAdmin},
		ActionPartialUpdate: {roleAuthenticated},
		ActionDestroy:       {models.RoleModerator, models.RoleAdmin},
	},
	ResourceComment: {
		ActionList:          {roleAnyone},
		ActionRetrieve:      {roleAnyone},
		ActionCreate:        {models.RoleUser, models.RoleModerator, models.RoleAdmin},
		ActionPartialUpdate: {roleAuthenticated},
		ActionDestroy:       {models.RoleModerator, models.RoleAdmin},
	},
	ResourceTitle: {
		ActionList:          {roleAnyone},
		ActionRetrieve:      {roleAnyone},
		ActionCreate:        {models.RoleAdmin},
		ActionPartialUpdate: {models.RoleAdmin},
		ActionDestroy:       {models.RoleAdmin},
	},
	ResourceCategory: {
		ActionList:     {roleAnyone},
		ActionRetrieve: {roleAnyone},
		ActionCreate:   {models.RoleAdmin},
		ActionDestroy:  {models.RoleAdmin},
	},
	ResourceGenre: {
		ActionList:     {roleAnyone},
		ActionRetrieve: {roleAnyone},
		ActionCreate:   {models.RoleAdmin},
		ActionDestroy:  {models.RoleAdmin},
	},
	ResourceUser: {
		ActionList:          {models.RoleAdmin},
		ActionRetrieve:      {models.RoleAdmin},
		ActionCreate:        {models.RoleAdmin},
		ActionPartialUpdate: {models.RoleAdmin},
		ActionDestroy:       {models.RoleAdmin},
	},
}

// Allowed reports whether the actor's role admits the action on the resource
// kind. A nil actor is an unauthenticated request.
func Allowed(actor *models.User, resource Resource, action Action) bool {
	allowed, ok := rules[resource][action]
	if !ok {
		return false
	}
	for _, role := range allowed {
		switch role {
		case roleAnyone:
			return true
		case roleAuthenticated:
			if actor != nil {
				return true
			}
		default:
			if actor != nil && actor.Role == role {
				return true
			}
		}
	}
	return false
}

// CanModify is the object-level check for reviews and comments: the owner
// may patch their own resource, moderators and admins may patch anything,
// and destroy is restricted to moderators and admins even for the owner.
func CanModify(actor *models.User, action Action, ownerID string) bool {
	if actor == nil {
		return false
	}
	switch action {
	case ActionPartialUpdate:
		return actor.ID == ownerID || actor.IsStaff()
	case ActionDestroy:
		return actor.IsStaff()
	}
	return false
}
