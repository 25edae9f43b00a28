package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/logger"
)

type RegisterContactCommand struct {
	TelegramID int64
	Username   string
	FullName   string
}

type RegisterContactResult struct {
	Created bool
	IsAdmin bool
}

// RegisterContactUseCase upserts a user on first contact and refreshes the
// stored profile when the transport reports new details. Admin status comes
// from the configured admin chat list, not from the sender.
type RegisterContactUseCase struct {
	userRepo user.Repository
	adminIDs []int64
	logger   logger.Interface
}

func NewRegisterContactUseCase(userRepo user.Repository, adminIDs []int64, logger logger.Interface) *RegisterContactUseCase {
	return &RegisterContactUseCase{userRepo: userRepo, adminIDs: adminIDs, logger: logger}
}

func (uc *RegisterContactUseCase) Execute(ctx context.Context, cmd RegisterContactCommand) (*RegisterContactResult, error) {
	if cmd.TelegramID == 0 {
		return nil, fmt.Errorf("telegram ID is required")
	}

	isAdmin := slices.Contains(uc.adminIDs, cmd.TelegramID)

	existing, err := uc.userRepo.GetByTelegramID(ctx, cmd.TelegramID)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			uc.logger.Errorw("failed to load user", "telegram_id", cmd.TelegramID, "error", err)
			return nil, fmt.Errorf("failed to load user: %w", err)
		}

		u, err := user.NewUser(cmd.TelegramID, cmd.Username, cmd.FullName, isAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if err := uc.userRepo.Save(ctx, u); err != nil {
			uc.logger.Errorw("failed to save user", "telegram_id", cmd.TelegramID, "error", err)
			return nil, fmt.Errorf("failed to save user: %w", err)
		}

		uc.logger.Infow("user registered", "telegram_id", cmd.TelegramID, "is_admin", isAdmin)
		return &RegisterContactResult{Created: true, IsAdmin: isAdmin}, nil
	}

	changed := existing.RefreshProfile(cmd.Username, cmd.FullName)
	if isAdmin && !existing.IsAdmin() {
		existing.MarkAdmin()
		changed = true
	}
	if changed {
		if err := uc.userRepo.Update(ctx, existing); err != nil {
			uc.logger.Errorw("failed to update user", "telegram_id", cmd.TelegramID, "error", err)
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return &RegisterContactResult{IsAdmin: existing.IsAdmin()}, nil
}
