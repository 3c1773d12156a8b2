package collab

// Deterministic in-memory doubles for the capability interfaces. The
// fake runner mimics the store-side transaction contract: member rows
// are snapshotted and restored on rollback, while policy writes are
// external and survive it, which is exactly the residue the commit
// failure path has to live with.

import (
	"context"

	docstore "github.com/collabware/collabhub/internal/app/store/collabdocs"
	memberstore "github.com/collabware/collabhub/internal/app/store/members"
	publishstore "github.com/collabware/collabhub/internal/app/store/publish"
	"github.com/collabware/collabhub/internal/app/system/txn"
	"github.com/collabware/collabhub/internal/domain/models"
	"github.com/google/uuid"
)

type memberKey struct {
	uid      int64
	objectID string
}

type fakeMemberStore struct {
	rows map[memberKey]models.CollabMember
	ops  *[]string

	insertErr error
}

func newFakeMemberStore(ops *[]string) *fakeMemberStore {
	return &fakeMemberStore{rows: make(map[memberKey]models.CollabMember), ops: ops}
}

func (s *fakeMemberStore) record(op string) {
	if s.ops != nil {
		*s.ops = append(*s.ops, op)
	}
}

func (s *fakeMemberStore) Exists(ctx context.Context, uid int64, objectID string) (bool, error) {
	s.record("member.exists")
	_, ok := s.rows[memberKey{uid, objectID}]
	return ok, nil
}

func (s *fakeMemberStore) Insert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
	s.record("member.insert")
	if s.insertErr != nil {
		return s.insertErr
	}
	key := memberKey{uid, objectID}
	if _, ok := s.rows[key]; ok {
		return memberstore.ErrDuplicateMember
	}
	s.rows[key] = models.CollabMember{UID: uid, ObjectID: objectID, AccessLevel: level}
	return nil
}

func (s *fakeMemberStore) Upsert(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
	s.record("member.upsert")
	s.rows[memberKey{uid, objectID}] = models.CollabMember{UID: uid, ObjectID: objectID, AccessLevel: level}
	return nil
}

func (s *fakeMemberStore) Delete(ctx context.Context, uid int64, objectID string) error {
	s.record("member.delete")
	delete(s.rows, memberKey{uid, objectID})
	return nil
}

func (s *fakeMemberStore) Get(ctx context.Context, uid int64, objectID string) (models.CollabMember, error) {
	m, ok := s.rows[memberKey{uid, objectID}]
	if !ok {
		return models.CollabMember{}, memberstore.ErrNotFound
	}
	return m, nil
}

func (s *fakeMemberStore) ListByObject(ctx context.Context, objectID string) ([]models.CollabMember, error) {
	var out []models.CollabMember
	for key, m := range s.rows {
		if key.objectID == objectID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePolicyStore struct {
	levels map[memberKey]models.AccessLevel
	ops    *[]string

	setErr    error
	removeErr error
}

func newFakePolicyStore(ops *[]string) *fakePolicyStore {
	return &fakePolicyStore{levels: make(map[memberKey]models.AccessLevel), ops: ops}
}

func (s *fakePolicyStore) record(op string) {
	if s.ops != nil {
		*s.ops = append(*s.ops, op)
	}
}

func (s *fakePolicyStore) SetAccessLevel(ctx context.Context, uid int64, objectID string, level models.AccessLevel) error {
	s.record("policy.set")
	if s.setErr != nil {
		return s.setErr
	}
	s.levels[memberKey{uid, objectID}] = level
	return nil
}

func (s *fakePolicyStore) RemoveAccess(ctx context.Context, uid int64, objectID string) error {
	s.record("policy.remove")
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.levels, memberKey{uid, objectID})
	return nil
}

// fakeRunner applies the transaction contract to the fake member store:
// rollback restores member rows, commit failure also restores them (the
// server never applied the commit) but leaves policy writes in place.
type fakeRunner struct {
	members   *fakeMemberStore
	commitErr error
	calls     int
}

func (r *fakeRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	snapshot := make(map[memberKey]models.CollabMember, len(r.members.rows))
	for k, v := range r.members.rows {
		snapshot[k] = v
	}

	if err := fn(ctx); err != nil {
		r.members.rows = snapshot
		return err
	}
	if r.commitErr != nil {
		r.members.rows = snapshot
		return &txn.CommitError{Err: r.commitErr}
	}
	return nil
}

type fakeDocStore struct {
	docs  map[string]models.EncodedDocument // keyed by object id
	err   error
	calls int

	lastOrigin models.Origin
}

func (s *fakeDocStore) GetEncodedDocument(ctx context.Context, origin models.Origin, workspaceID, objectID string, collabType models.CollabType, requireLatest bool) (models.EncodedDocument, error) {
	s.calls++
	s.lastOrigin = origin
	if s.err != nil {
		return models.EncodedDocument{}, s.err
	}
	doc, ok := s.docs[objectID]
	if !ok {
		return models.EncodedDocument{}, docstore.ErrNotFound
	}
	return doc, nil
}

type fakeDecoder struct {
	folder *models.Folder
	err    error
}

func (d *fakeDecoder) DecodeFolder(uid int64, origin models.Origin, doc models.EncodedDocument, workspaceID string, updates [][]byte) (*models.Folder, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.folder, nil
}

type fakePublishStore struct {
	namespaces map[string]uuid.UUID
	published  map[string]map[string]struct{} // workspace id -> view ids
}

func (s *fakePublishStore) WorkspaceForNamespace(ctx context.Context, namespace string) (uuid.UUID, error) {
	id, ok := s.namespaces[namespace]
	if !ok {
		return uuid.Nil, publishstore.ErrNamespaceNotFound
	}
	return id, nil
}

func (s *fakePublishStore) PublishedViewIDs(ctx context.Context, workspaceID uuid.UUID) (map[string]struct{}, error) {
	ids := s.published[workspaceID.String()]
	if ids == nil {
		ids = make(map[string]struct{})
	}
	return ids, nil
}
