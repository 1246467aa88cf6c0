package model

import (
	"time"
)

// BaseModel handles the integer ID and standard audit trail
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit user tracking (username of the actor)
	CreatedBy string `gorm:"type:varchar(100)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
}

// Touch stamps the audit fields for a write performed by actor.
func (base *BaseModel) Touch(actor string) {
	if base.ID == 0 {
		base.CreatedBy = actor
	}
	base.UpdatedBy = actor
}

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&Stock{},
		&StockDetail{},
		&Sale{},
		&SaleDetail{},
	}
}
