package domain

import "context"

// Args are the named arguments of a remote procedure.
type Args map[string]any

// RPCCaller invokes named database procedures as the authenticated user.
// Results are decoded into dest when dest is non-nil.
type RPCCaller interface {
	// Call runs a procedure returning jsonb, a scalar or void.
	Call(ctx context.Context, userID, proc string, args Args, dest any) error
	// CallSet runs a set-returning procedure and decodes every row into the slice dest points to.
	CallSet(ctx context.Context, userID, proc string, args Args, dest any) error
}

// ServiceCaller invokes procedures with the privileged service credential.
type ServiceCaller interface {
	CallAsService(ctx context.Context, proc string, args Args, dest any) error
}
