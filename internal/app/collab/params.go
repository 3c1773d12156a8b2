// internal/app/collab/params.go
package collab

import (
	"strings"

	"github.com/collabware/collabhub/internal/domain/models"
)

// Validation is a structural precondition check: it runs before any I/O
// and a failure short-circuits the operation with no side effects.

// InsertMemberParams are the inputs to MemberAccess.Create.
type InsertMemberParams struct {
	UID         int64
	ObjectID    string
	AccessLevel models.AccessLevel
}

func (p InsertMemberParams) Validate() error {
	return validateMemberChange(p.UID, p.ObjectID, p.AccessLevel)
}

// UpdateMemberParams are the inputs to MemberAccess.Upsert.
type UpdateMemberParams struct {
	UID         int64
	ObjectID    string
	AccessLevel models.AccessLevel
}

func (p UpdateMemberParams) Validate() error {
	return validateMemberChange(p.UID, p.ObjectID, p.AccessLevel)
}

// MemberIdentify names one membership row for Get and Delete.
type MemberIdentify struct {
	UID      int64
	ObjectID string
}

func (p MemberIdentify) Validate() error {
	if p.UID <= 0 {
		return newError(KindInvalidInput, "uid must be positive, got %d", p.UID)
	}
	if strings.TrimSpace(p.ObjectID) == "" {
		return newError(KindInvalidInput, "object id must not be empty")
	}
	return nil
}

func validateMemberChange(uid int64, objectID string, level models.AccessLevel) error {
	if uid <= 0 {
		return newError(KindInvalidInput, "uid must be positive, got %d", uid)
	}
	if strings.TrimSpace(objectID) == "" {
		return newError(KindInvalidInput, "object id must not be empty")
	}
	if !level.Valid() {
		return newError(KindInvalidInput, "access level %d is not a defined tier", level)
	}
	return nil
}
