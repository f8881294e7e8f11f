package models

import (
	"time"

	"github.com/google/uuid"
)

// AutoMatchRule maps an item-name keyword to classification fields. Nil fields
// leave the staged value untouched.
type AutoMatchRule struct {
	ID               uuid.UUID      `db:"id"`
	TenantID         uuid.UUID      `db:"tenant_id"`
	Keyword          string         `db:"keyword"`
	Category         *Category      `db:"category"`
	AssignedUserID   *uuid.UUID     `db:"assigned_user_id"`
	AssignedUserName *string        `db:"assigned_user_name"`
	PaymentMethod    *PaymentMethod `db:"payment_method"`
	Priority         int            `db:"priority"`
	IsActive         bool           `db:"is_active"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
