package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/movie_go_server/internal/model/dto"
	"github.com/qs3c/movie_go_server/internal/repository"
)

var ErrLastAdmin = errors.New("不能移除最后一名管理员")

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile 获取用户信息
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return BuildUserInfo(user), nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.PreferredQuality != nil {
		user.PreferredQuality = *req.PreferredQuality
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return BuildUserInfo(user), nil
}

// ListUsers 用户列表（管理员），支持用户名/邮箱搜索
func (s *UserService) ListUsers(page, pageSize int, search string) ([]*dto.UserInfo, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, BuildUserInfo(u))
	}
	return infos, total, nil
}

// Stats 用户统计（管理员）
func (s *UserService) Stats() (*dto.UserStats, error) {
	return s.userRepo.Stats()
}

// UpdateRole 修改用户角色（管理员）。系统里至少保留一名启用的管理员
func (s *UserService) UpdateRole(userID int64, role string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Role == "admin" && role != "admin" && user.IsActive {
		count, err := s.userRepo.CountActiveAdmins()
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{"role": role})
}

// SetActive 启用或禁用账号（管理员）
func (s *UserService) SetActive(userID int64, active bool) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.UpdateFields(userID, map[string]interface{}{"is_active": active})
}
