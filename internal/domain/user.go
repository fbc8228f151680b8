package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// ValidRole 只有 admin / agent 两种角色
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleAgent }

type User struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email        string    `gorm:"size:191" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Role         string    `gorm:"size:10;not null" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	ListByRole(role string) ([]User, error)
	SearchAgents(q string) ([]User, error)
}
