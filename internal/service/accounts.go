package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"educall-server/internal/domain"
	"educall-server/internal/repo"
	"educall-server/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrPasswordMismatch = errors.New("passwords do not match")

// Accounts 账号创建与凭证校验
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts { return &Accounts{db: db} }

// Authenticate 用户名精确匹配 + bcrypt 校验。
// 查不到用户和密码错误统一报 invalid credentials，不区分。
func (s *Accounts) Authenticate(username, password string) (*domain.User, error) {
	u, err := repo.NewUserRepo(s.db).FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Register 公开注册，角色强制为 agent
func (s *Accounts) Register(username, password, confirm string) (*domain.User, error) {
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	return s.create(username, password, domain.RoleAgent, "")
}

// CreateUser 管理员建号，admin/agent 皆可
func (s *Accounts) CreateUser(username, password, role, email string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return s.create(username, password, role, email)
}

func (s *Accounts) create(username, password, role, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: utils.HashPassword(password),
		Role:         role,
	}
	var err error
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		existing, e := users.FindByUsername(username)
		if e != nil {
			return e
		}
		if existing != nil {
			err = domain.ErrDuplicateUsername
			return err
		}
		return users.Create(u)
	})
	if err != nil {
		return nil, err
	}
	if txErr != nil {
		return nil, fmt.Errorf("create user: %w", txErr)
	}
	return u, nil
}

func (s *Accounts) ListAgents() ([]domain.User, error) {
	return repo.NewUserRepo(s.db).ListByRole(domain.RoleAgent)
}

func (s *Accounts) FindByID(id string) (*domain.User, error) {
	return repo.NewUserRepo(s.db).FindByID(id)
}
