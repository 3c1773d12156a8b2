// internal/domain/models/member.go
package models

// Terminology: Identifiers
//   - UID / uid: the numeric account id of a user, assigned by the account system
//   - ObjectID / object_id: the string id of a collab object (a workspace's root
//     folder object id equals the workspace id)

import "time"

// AccessLevel is an ordered permission tier for a (uid, object) pair.
// The gaps between values leave room for intermediate tiers without
// renumbering stored records.
type AccessLevel int32

const (
	AccessLevelReadOnly       AccessLevel = 10
	AccessLevelReadAndComment AccessLevel = 20
	AccessLevelReadAndWrite   AccessLevel = 30
	AccessLevelFullAccess     AccessLevel = 50
)

// Valid reports whether l is one of the defined tiers.
func (l AccessLevel) Valid() bool {
	switch l {
	case AccessLevelReadOnly, AccessLevelReadAndComment, AccessLevelReadAndWrite, AccessLevelFullAccess:
		return true
	}
	return false
}

func (l AccessLevel) String() string {
	switch l {
	case AccessLevelReadOnly:
		return "read_only"
	case AccessLevelReadAndComment:
		return "read_and_comment"
	case AccessLevelReadAndWrite:
		return "read_and_write"
	case AccessLevelFullAccess:
		return "full_access"
	}
	return "unknown"
}

// CollabMember is one membership row: at most one exists per
// (uid, object_id), enforced by a unique index on the collection.
type CollabMember struct {
	UID         int64       `bson:"uid" json:"uid"`
	ObjectID    string      `bson:"object_id" json:"object_id"`
	AccessLevel AccessLevel `bson:"access_level" json:"access_level"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}
