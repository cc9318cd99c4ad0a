package service

import (
	"context"

	"socialapp/internal/models"
	"socialapp/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, userRepo: userRepo}
}

// GetMine returns the caller's profile with the owner's name and avatar filled in.
func (s *ProfileService) GetMine(ctx context.Context, callerID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNoProfileError()
	}

	owner, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewNoProfileError()
		}
		return nil, err
	}
	profile.Owner = &models.ProfileOwner{ID: owner.ID, Name: owner.Name, Avatar: owner.Avatar}
	return profile, nil
}
