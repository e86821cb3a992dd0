package models

import (
	"time"
)

// Product represents one licensed software subscription tracked by the
// system. Subscription CRUD lives outside this service; the renewal workflow
// only reads products to resolve references and snapshot renewal terms.
type Product struct {
	ProductID    int        `gorm:"primaryKey;column:product_id" json:"product_id"`
	Name         string     `gorm:"column:name" json:"name"`
	Vendor       string     `gorm:"column:vendor" json:"vendor"`
	Category     *string    `gorm:"column:category" json:"category,omitempty"`
	RenewalDate  *time.Time `gorm:"column:renewal_date" json:"renewal_date,omitempty"`
	AnnualCost   float64    `gorm:"column:annual_cost" json:"annual_cost"`
	LicenseCount int        `gorm:"column:license_count" json:"license_count"`
	IsRetired    bool       `gorm:"column:is_retired" json:"is_retired"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
