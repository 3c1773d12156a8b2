// internal/domain/models/collab.go
package models

import "time"

// CollabType identifies the kind of collaborative document an encoded
// payload materializes into.
type CollabType string

const (
	CollabTypeFolder   CollabType = "folder"
	CollabTypeDocument CollabType = "document"
	CollabTypeDatabase CollabType = "database"
)

// EncodedDocument is the opaque versioned payload of one collab object as
// stored by the document store. DocState carries the encoded snapshot;
// StateVector summarizes the versions folded into it. The payload is
// consumed exactly once per materialization call and never cached here.
type EncodedDocument struct {
	ObjectID    string     `bson:"object_id" json:"object_id"`
	CollabType  CollabType `bson:"collab_type" json:"collab_type"`
	StateVector []byte     `bson:"state_vector" json:"state_vector,omitempty"`
	DocState    []byte     `bson:"doc_state" json:"doc_state"`
	Version     int64      `bson:"version" json:"version"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Origin identifies who a fetch or decode is performed on behalf of.
// It is passed explicitly on every call; there is no ambient identity.
type Origin struct {
	UID    int64
	Server bool
}

// UserOrigin is the origin of a request made by a signed-in user.
func UserOrigin(uid int64) Origin { return Origin{UID: uid} }

// ServerOrigin is the privileged origin used for reads that bypass
// per-user access checks, such as resolving published content.
func ServerOrigin() Origin { return Origin{Server: true} }

func (o Origin) String() string {
	if o.Server {
		return "server"
	}
	return "user"
}
