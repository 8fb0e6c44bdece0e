package user

import "context"

// Actor is the authenticated caller of a request, built from verified token
// claims.
type Actor struct {
	UserID     string
	EmployeeID string
	Email      string
	Role       Role
}

// Can reports whether the actor's role holds permission.
func (a Actor) Can(permission Permission) bool {
	return HasPermission(a.Role, permission)
}

// IsEmployee reports whether the actor is linked to employeeID.
func (a Actor) IsEmployee(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by the auth middleware.
func ActorFromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || actor.UserID == "" {
		return Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

// RequirePermission returns the context actor when its role holds permission.
func RequirePermission(ctx context.Context, permission Permission) (Actor, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return Actor{}, err
	}
	if !actor.Can(permission) {
		return Actor{}, ErrInsufficientPermissions
	}
	return actor, nil
}
