package user

import "context"

type Repository interface {
	Save(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListAdmins(ctx context.Context) ([]*User, error)
}
