package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserCompany is a company grant. The composite key makes grants a set.
type UserCompany struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:varchar(36)"`
	CompanyID string    `gorm:"primaryKey;column:company_id;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserCompany) TableName() string {
	return "user_companies"
}

type UserProject struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:varchar(36)"`
	ProjectID string    `gorm:"primaryKey;column:project_id;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserProject) TableName() string {
	return "user_projects"
}
