package usecases

import "context"

type RegisterContactExecutor interface {
	Execute(ctx context.Context, cmd RegisterContactCommand) (*RegisterContactResult, error)
}

type ListUsersExecutor interface {
	Execute(ctx context.Context) (*ListUsersResult, error)
}
