package service

import (
	"context"

	"hackfest_v2/internal/common"
	"hackfest_v2/internal/domain/model"
	"hackfest_v2/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UserListResponse struct {
	Users    []model.User `json:"users"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	users, total, err := s.userRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return &UserListResponse{Users: users, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *UserService) UpdateRole(ctx context.Context, userID, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return common.ErrBadRequest
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
