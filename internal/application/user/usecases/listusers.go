package usecases

import (
	"context"
	"fmt"

	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/logger"
)

type UserListItem struct {
	TelegramID int64
	Username   string
	FullName   string
	IsAdmin    bool
}

type ListUsersResult struct {
	Users []UserListItem
}

type ListUsersUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context) (*ListUsersResult, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			TelegramID: u.TelegramID(),
			Username:   u.Username(),
			FullName:   u.FullName(),
			IsAdmin:    u.IsAdmin(),
		})
	}
	return &ListUsersResult{Users: items}, nil
}
