package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUnknownAssignee = errors.New("assigned user is not a member of this tenant")

// MemberCounter counts how many of a set of users belong to a tenant.
type MemberCounter interface {
	CountInTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int, error)
}

// checkAssignees fails with ErrUnknownAssignee unless every id is a user of
// the tenant.
func checkAssignees(ctx context.Context, members MemberCounter, tenantID uuid.UUID, ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return nil
	}

	n, err := members.CountInTenant(ctx, tenantID, distinct)
	if err != nil {
		return err
	}
	if n < len(distinct) {
		return ErrUnknownAssignee
	}
	return nil
}
