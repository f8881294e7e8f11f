package dto

import (
	"fmt"
	"time"

	"agency-ledger/internal/models"

	"github.com/google/uuid"
)

// RuleRequest creates or replaces an auto-match rule. Omitted priority means 0,
// omitted is_active means true.
type RuleRequest struct {
	Keyword        string  `json:"keyword"`
	Category       *string `json:"category"`
	AssignedUserID *string `json:"assigned_user_id"`
	PaymentMethod  *string `json:"payment_method"`
	Priority       *int    `json:"priority"`
	IsActive       *bool   `json:"is_active"`
}

type RuleResponse struct {
	ID               string  `json:"id"`
	Keyword          string  `json:"keyword"`
	Category         *string `json:"category"`
	AssignedUserID   *string `json:"assigned_user_id"`
	AssignedUserName *string `json:"assigned_user_name"`
	PaymentMethod    *string `json:"payment_method"`
	Priority         int     `json:"priority"`
	IsActive         bool    `json:"is_active"`
	CreatedAt        string  `json:"created_at"`
}

func NewRuleResponse(r *models.AutoMatchRule) RuleResponse {
	resp := RuleResponse{
		ID:               r.ID.String(),
		Keyword:          r.Keyword,
		AssignedUserName: r.AssignedUserName,
		Priority:         r.Priority,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
	if r.Category != nil {
		c := string(*r.Category)
		resp.Category = &c
	}
	if r.AssignedUserID != nil {
		id := r.AssignedUserID.String()
		resp.AssignedUserID = &id
	}
	if r.PaymentMethod != nil {
		p := string(*r.PaymentMethod)
		resp.PaymentMethod = &p
	}
	return resp
}

// ToModel reads a rule fetched over the API back into the domain type.
func (r RuleResponse) ToModel() (models.AutoMatchRule, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return models.AutoMatchRule{}, fmt.Errorf("invalid rule id %q: %w", r.ID, err)
	}

	rule := models.AutoMatchRule{
		ID:               id,
		Keyword:          r.Keyword,
		AssignedUserName: r.AssignedUserName,
		Priority:         r.Priority,
		IsActive:         r.IsActive,
	}
	if r.Category != nil && *r.Category != "" {
		c := models.Category(*r.Category)
		rule.Category = &c
	}
	if r.AssignedUserID != nil && *r.AssignedUserID != "" {
		uid, err := uuid.Parse(*r.AssignedUserID)
		if err != nil {
			return models.AutoMatchRule{}, fmt.Errorf("invalid assigned user id %q: %w", *r.AssignedUserID, err)
		}
		rule.AssignedUserID = &uid
	}
	if r.PaymentMethod != nil && *r.PaymentMethod != "" {
		p := models.PaymentMethod(*r.PaymentMethod)
		rule.PaymentMethod = &p
	}
	return rule, nil
}
