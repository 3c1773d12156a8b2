// internal/app/collab/members.go
package collab

// Terminology: Identifiers
//   - UID / uid: the numeric account id of a user
//   - ObjectID / object_id: the string id of a collab object

import (
	"context"
	"errors"

	"github.com/collabware/collabhub/internal/app/store/audit"
	memberstore "github.com/collabware/collabhub/internal/app/store/members"
	"github.com/collabware/collabhub/internal/app/system/auditlog"
	"github.com/collabware/collabhub/internal/app/system/txn"
	"github.com/collabware/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// MemberAccess orchestrates membership mutations against the member
// store and the access policy store inside one transaction scope per
// call. There is no shared mutable state; concurrent calls for the same
// (uid, object_id) are serialized by the store's unique index and the
// transaction isolation underneath.
type MemberAccess struct {
	txn      txn.Runner
	members  MemberStore
	policies PolicyStore
	audit    *auditlog.Logger
	log      *zap.Logger
}

// NewMemberAccess wires a member access manager. audit may be nil.
func NewMemberAccess(runner txn.Runner, members MemberStore, policies PolicyStore, auditLog *auditlog.Logger, logger *zap.Logger) *MemberAccess {
	if logger == nil {
		logger = zap.L()
	}
	return &MemberAccess{
		txn:      runner,
		members:  members,
		policies: policies,
		audit:    auditLog,
		log:      logger,
	}
}

// Create adds a new collab member. If the member already exists the call
// fails with KindAlreadyExists and nothing changes. The row insert runs
// before the policy update; both are inside the transaction, so a policy
// failure rolls the insert back. A commit failure is surfaced as
// KindCommitFailure: at that point the policy update has already been
// applied and the stores may disagree until the next successful mutation
// for the pair, which is why the residue is logged at Error level.
func (m *MemberAccess) Create(ctx context.Context, params InsertMemberParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	err := m.txn.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := m.members.Exists(ctx, params.UID, params.ObjectID)
		if err != nil {
			return coerce(err, "check collab member")
		}
		if exists {
			return newError(KindAlreadyExists,
				"collab member with uid %d and object id %s already exists", params.UID, params.ObjectID)
		}

		m.log.Debug("inserting collab member",
			zap.Int64("uid", params.UID),
			zap.String("object_id", params.ObjectID),
			zap.Stringer("access_level", params.AccessLevel),
		)
		if err := m.members.Insert(ctx, params.UID, params.ObjectID, params.AccessLevel); err != nil {
			if errors.Is(err, memberstore.ErrDuplicateMember) {
				return newError(KindAlreadyExists,
					"collab member with uid %d and object id %s already exists", params.UID, params.ObjectID)
			}
			return coerce(err, "insert collab member")
		}

		if err := m.policies.SetAccessLevel(ctx, params.UID, params.ObjectID, params.AccessLevel); err != nil {
			return wrapError(KindPolicyUpdateFailure, err, "update access level policy")
		}
		return nil
	})
	return m.finishMutation(ctx, "collab_member_create", params.UID, params.ObjectID, err)
}

// Upsert creates or updates a collab member's access level. Unlike
// Create, the policy update runs before the row write; a crash between
// policy update and commit therefore leaves the policy ahead of the row
// rather than behind it.
func (m *MemberAccess) Upsert(ctx context.Context, params UpdateMemberParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	err := m.txn.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := m.policies.SetAccessLevel(ctx, params.UID, params.ObjectID, params.AccessLevel); err != nil {
			return wrapError(KindPolicyUpdateFailure, err, "update access level policy")
		}
		if err := m.members.Upsert(ctx, params.UID, params.ObjectID, params.AccessLevel); err != nil {
			return coerce(err, "upsert collab member")
		}
		return nil
	})
	return m.finishMutation(ctx, "collab_member_upsert", params.UID, params.ObjectID, err)
}

// Get returns one membership row. Fails with KindNotFound if absent.
// Single read, no transaction.
func (m *MemberAccess) Get(ctx context.Context, identify MemberIdentify) (models.CollabMember, error) {
	if err := identify.Validate(); err != nil {
		return models.CollabMember{}, err
	}
	member, err := m.members.Get(ctx, identify.UID, identify.ObjectID)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			return models.CollabMember{}, newError(KindNotFound,
				"collab member with uid %d and object id %s not found", identify.UID, identify.ObjectID)
		}
		return models.CollabMember{}, coerce(err, "select collab member")
	}
	return member, nil
}

// Delete removes a membership row and its policy entry. Deleting an
// absent member succeeds idempotently; either way no policy entry is
// left dangling after a successful return.
func (m *MemberAccess) Delete(ctx context.Context, identify MemberIdentify) error {
	if err := identify.Validate(); err != nil {
		return err
	}

	m.log.Debug("deleting collab member",
		zap.Int64("uid", identify.UID),
		zap.String("object_id", identify.ObjectID),
	)
	err := m.txn.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := m.members.Delete(ctx, identify.UID, identify.ObjectID); err != nil {
			return coerce(err, "delete collab member")
		}
		if err := m.policies.RemoveAccess(ctx, identify.UID, identify.ObjectID); err != nil {
			return wrapError(KindPolicyUpdateFailure, err, "remove access level policy")
		}
		return nil
	})
	return m.finishMutation(ctx, "collab_member_delete", identify.UID, identify.ObjectID, err)
}

// List returns all membership rows for one collab object. The store may
// expose a stable order but callers must not depend on it.
func (m *MemberAccess) List(ctx context.Context, objectID string) ([]models.CollabMember, error) {
	if objectID == "" {
		return nil, newError(KindInvalidInput, "object id must not be empty")
	}
	members, err := m.members.ListByObject(ctx, objectID)
	if err != nil {
		return nil, coerce(err, "select collab members")
	}
	return members, nil
}

// finishMutation classifies the transaction outcome, emits the audit
// event, and logs the commit-failure residue when the policy side may
// already have been applied.
func (m *MemberAccess) finishMutation(ctx context.Context, eventType string, uid int64, objectID string, err error) error {
	if err == nil {
		m.audit.Log(ctx, audit.Event{
			Category:  audit.CategoryMember,
			EventType: eventType,
			UID:       uid,
			ObjectID:  objectID,
			Success:   true,
		})
		return nil
	}

	var ce *txn.CommitError
	if errors.As(err, &ce) {
		m.log.Error("transaction commit failed; membership row and policy entry may disagree",
			zap.String("operation", eventType),
			zap.Int64("uid", uid),
			zap.String("object_id", objectID),
			zap.Error(ce),
		)
		err = wrapError(KindCommitFailure, ce, "%s", eventType)
	}

	m.audit.Log(ctx, audit.Event{
		Category:      audit.CategoryMember,
		EventType:     eventType,
		UID:           uid,
		ObjectID:      objectID,
		Success:       false,
		FailureReason: err.Error(),
	})
	return err
}
