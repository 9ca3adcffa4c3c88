package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

// Special is a standing buy-X-get-Y promotion rule as stored.
type Special struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name                string             `gorm:"column:name;not null"`
	Active              bool               `gorm:"column:active;not null;default:true"`
	MutuallyExclusive   bool               `gorm:"column:mutually_exclusive;not null;default:false"`
	StartDate           *time.Time         `gorm:"column:start_date;type:date"`
	EndDate             *time.Time         `gorm:"column:end_date;type:date"`
	TriggerType         enums.TargetType   `gorm:"column:trigger_type;type:text;not null"`
	TriggerTargetID     string             `gorm:"column:trigger_target_id;not null"`
	TriggerSize         *string            `gorm:"column:trigger_size"`
	TriggerQuantity     int                `gorm:"column:trigger_quantity;not null;default:1"`
	RewardType          enums.TargetType   `gorm:"column:reward_type;type:text;not null"`
	RewardTargetID      string             `gorm:"column:reward_target_id;not null"`
	RewardSize          *string            `gorm:"column:reward_size"`
	RewardQuantity      int                `gorm:"column:reward_quantity;not null;default:1"`
	DiscountType        enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue       *decimal.Decimal   `gorm:"column:discount_value;type:numeric(5,2)"`
	FixedDiscountAmount *decimal.Decimal   `gorm:"column:fixed_discount_amount;type:numeric(12,2)"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Special) TableName() string { return "specials" }
