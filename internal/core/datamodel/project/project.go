package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project.CompanyID carries no foreign key: deleting a company leaves its
// projects in place.
type Project struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;not null"`
	Description  string    `gorm:"column:description"`
	DashboardURL string    `gorm:"column:dashboard_url;not null"`
	CompanyID    string    `gorm:"column:company_id;type:varchar(36);not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
