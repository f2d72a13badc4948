package service

import (
	"errors"

	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	Me(actor *models.User) *dto.UserResponse
	UpdateMe(actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)

	List(search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	GetByUsername(username string) (*dto.UserResponse, error)
	Create(req dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateByUsername(actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteByUsername(username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Me(actor *models.User) *dto.UserResponse {
	return dto.FromModelToUserResponse(actor)
}

// UpdateMe applies a self-service profile patch. A role field in the patch
// is honored only for admins; for everyone else it is dropped while the
// rest of the patch still applies, so role escalation through /users/me is
// impossible.
func (s *userService) UpdateMe(actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != models.RoleAdmin {
		req.Role = nil
	}
	return s.applyPatch(actor, req)
}

func (s *userService) List(search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}

	return dto.NewPaginatedUserResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) GetByUsername(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Create(req dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameInUse
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateByUsername is the admin-side patch; the role field applies as-is
// because only admins reach this path.
func (s *userService) UpdateByUsername(actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.applyPatch(user, req)
}

func (s *userService) DeleteByUsername(username string) error {
	err := s.userRepo.DeleteByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *userService) applyPatch(user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameInUse
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}
