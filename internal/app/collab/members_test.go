package collab

import (
	"context"
	"errors"
	"testing"

	"github.com/collabware/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

type memberHarness struct {
	ops      []string
	members  *fakeMemberStore
	policies *fakePolicyStore
	runner   *fakeRunner
	mgr      *MemberAccess
}

func newMemberHarness(t *testing.T) *memberHarness {
	t.Helper()
	h := &memberHarness{}
	h.members = newFakeMemberStore(&h.ops)
	h.policies = newFakePolicyStore(&h.ops)
	h.runner = &fakeRunner{members: h.members}
	h.mgr = NewMemberAccess(h.runner, h.members, h.policies, nil, zap.NewNop())
	return h
}

func TestMemberAccessCreateThenGet(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	params := InsertMemberParams{UID: 42, ObjectID: "doc-1", AccessLevel: models.AccessLevelReadAndWrite}
	if err := h.mgr.Create(ctx, params); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := h.mgr.Get(ctx, MemberIdentify{UID: 42, ObjectID: "doc-1"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UID != 42 || got.ObjectID != "doc-1" || got.AccessLevel != models.AccessLevelReadAndWrite {
		t.Fatalf("unexpected member: %+v", got)
	}
	if lvl, ok := h.policies.levels[memberKey{42, "doc-1"}]; !ok || lvl != models.AccessLevelReadAndWrite {
		t.Fatalf("policy entry missing or wrong: %v %v", lvl, ok)
	}
}

func TestMemberAccessCreateInsertsRowBeforePolicy(t *testing.T) {
	h := newMemberHarness(t)

	if err := h.mgr.Create(context.Background(), InsertMemberParams{UID: 1, ObjectID: "o", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []string{"member.exists", "member.insert", "policy.set"}
	if len(h.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", h.ops, want)
	}
	for i := range want {
		if h.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", h.ops, want)
		}
	}
}

func TestMemberAccessCreateDuplicate(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	first := InsertMemberParams{UID: 7, ObjectID: "doc-2", AccessLevel: models.AccessLevelFullAccess}
	if err := h.mgr.Create(ctx, first); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	second := InsertMemberParams{UID: 7, ObjectID: "doc-2", AccessLevel: models.AccessLevelReadOnly}
	err := h.mgr.Create(ctx, second)
	if KindOf(err) != KindAlreadyExists {
		t.Fatalf("kind = %v, want already_exists (err %v)", KindOf(err), err)
	}

	got, err := h.mgr.Get(ctx, MemberIdentify{UID: 7, ObjectID: "doc-2"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AccessLevel != models.AccessLevelFullAccess {
		t.Fatalf("row level changed by failed create: %v", got.AccessLevel)
	}
	if lvl := h.policies.levels[memberKey{7, "doc-2"}]; lvl != models.AccessLevelFullAccess {
		t.Fatalf("policy level changed by failed create: %v", lvl)
	}
}

func TestMemberAccessCreatePolicyFailureRollsBack(t *testing.T) {
	h := newMemberHarness(t)
	h.policies.setErr = errors.New("policy backend down")

	err := h.mgr.Create(context.Background(), InsertMemberParams{UID: 9, ObjectID: "doc-3", AccessLevel: models.AccessLevelReadOnly})
	if KindOf(err) != KindPolicyUpdateFailure {
		t.Fatalf("kind = %v, want policy_update_failure (err %v)", KindOf(err), err)
	}
	if len(h.members.rows) != 0 {
		t.Fatalf("member row survived rollback: %v", h.members.rows)
	}
}

func TestMemberAccessCreateCommitFailure(t *testing.T) {
	h := newMemberHarness(t)
	h.runner.commitErr = errors.New("commit timed out")

	err := h.mgr.Create(context.Background(), InsertMemberParams{UID: 3, ObjectID: "doc-4", AccessLevel: models.AccessLevelReadAndComment})
	if KindOf(err) != KindCommitFailure {
		t.Fatalf("kind = %v, want commit_failure (err %v)", KindOf(err), err)
	}
	// Commit failure rolls the row back but the policy write already
	// went out; the manager reports it, it does not hide it.
	if len(h.members.rows) != 0 {
		t.Fatalf("member row present after failed commit: %v", h.members.rows)
	}
	if _, ok := h.policies.levels[memberKey{3, "doc-4"}]; !ok {
		t.Fatal("expected residual policy entry after commit failure")
	}
}

func TestMemberAccessCreateInvalidInput(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params InsertMemberParams
	}{
		{"zero uid", InsertMemberParams{UID: 0, ObjectID: "doc", AccessLevel: models.AccessLevelReadOnly}},
		{"negative uid", InsertMemberParams{UID: -5, ObjectID: "doc", AccessLevel: models.AccessLevelReadOnly}},
		{"blank object id", InsertMemberParams{UID: 1, ObjectID: "   ", AccessLevel: models.AccessLevelReadOnly}},
		{"bad access level", InsertMemberParams{UID: 1, ObjectID: "doc", AccessLevel: models.AccessLevel(15)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.mgr.Create(ctx, tc.params)
			if KindOf(err) != KindInvalidInput {
				t.Fatalf("kind = %v, want invalid_input (err %v)", KindOf(err), err)
			}
		})
	}
	if h.runner.calls != 0 {
		t.Fatalf("validation failures touched the stores: %d transactions", h.runner.calls)
	}
}

func TestMemberAccessUpsertUpdatesLevel(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	if err := h.mgr.Create(ctx, InsertMemberParams{UID: 5, ObjectID: "doc-5", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.mgr.Upsert(ctx, UpdateMemberParams{UID: 5, ObjectID: "doc-5", AccessLevel: models.AccessLevelReadAndWrite}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := h.mgr.Get(ctx, MemberIdentify{UID: 5, ObjectID: "doc-5"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AccessLevel != models.AccessLevelReadAndWrite {
		t.Fatalf("level = %v, want read and write", got.AccessLevel)
	}
	if lvl := h.policies.levels[memberKey{5, "doc-5"}]; lvl != models.AccessLevelReadAndWrite {
		t.Fatalf("policy level = %v, want read and write", lvl)
	}
}

func TestMemberAccessUpsertCreatesWhenAbsent(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	if err := h.mgr.Upsert(ctx, UpdateMemberParams{UID: 11, ObjectID: "doc-6", AccessLevel: models.AccessLevelReadAndComment}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := h.mgr.Get(ctx, MemberIdentify{UID: 11, ObjectID: "doc-6"})
	if err != nil {
		t.Fatalf("Get after upsert-create: %v", err)
	}
	if got.AccessLevel != models.AccessLevelReadAndComment {
		t.Fatalf("level = %v, want read and comment", got.AccessLevel)
	}
}

func TestMemberAccessUpsertWritesPolicyFirst(t *testing.T) {
	h := newMemberHarness(t)

	if err := h.mgr.Upsert(context.Background(), UpdateMemberParams{UID: 2, ObjectID: "o", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(h.ops) != 2 || h.ops[0] != "policy.set" || h.ops[1] != "member.upsert" {
		t.Fatalf("ops = %v, want [policy.set member.upsert]", h.ops)
	}
}

func TestMemberAccessUpsertPolicyFailureLeavesRowUntouched(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	if err := h.mgr.Create(ctx, InsertMemberParams{UID: 8, ObjectID: "doc-7", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	h.policies.setErr = errors.New("policy backend down")

	err := h.mgr.Upsert(ctx, UpdateMemberParams{UID: 8, ObjectID: "doc-7", AccessLevel: models.AccessLevelFullAccess})
	if KindOf(err) != KindPolicyUpdateFailure {
		t.Fatalf("kind = %v, want policy_update_failure (err %v)", KindOf(err), err)
	}
	got, err := h.mgr.Get(ctx, MemberIdentify{UID: 8, ObjectID: "doc-7"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AccessLevel != models.AccessLevelReadOnly {
		t.Fatalf("row level = %v, want unchanged read only", got.AccessLevel)
	}
}

func TestMemberAccessDelete(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	if err := h.mgr.Create(ctx, InsertMemberParams{UID: 6, ObjectID: "doc-8", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.mgr.Delete(ctx, MemberIdentify{UID: 6, ObjectID: "doc-8"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := h.mgr.Get(ctx, MemberIdentify{UID: 6, ObjectID: "doc-8"})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not_found (err %v)", KindOf(err), err)
	}
	if _, ok := h.policies.levels[memberKey{6, "doc-8"}]; ok {
		t.Fatal("policy entry left dangling after delete")
	}
}

func TestMemberAccessDeleteAbsentIsIdempotent(t *testing.T) {
	h := newMemberHarness(t)

	if err := h.mgr.Delete(context.Background(), MemberIdentify{UID: 99, ObjectID: "nope"}); err != nil {
		t.Fatalf("Delete of absent member: %v", err)
	}
}

func TestMemberAccessList(t *testing.T) {
	h := newMemberHarness(t)
	ctx := context.Background()

	for _, uid := range []int64{1, 2, 3} {
		if err := h.mgr.Create(ctx, InsertMemberParams{UID: uid, ObjectID: "doc-9", AccessLevel: models.AccessLevelReadOnly}); err != nil {
			t.Fatalf("Create uid %d: %v", uid, err)
		}
	}
	if err := h.mgr.Create(ctx, InsertMemberParams{UID: 1, ObjectID: "other", AccessLevel: models.AccessLevelReadOnly}); err != nil {
		t.Fatalf("Create on other object: %v", err)
	}

	members, err := h.mgr.List(ctx, "doc-9")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(members), members)
	}
	for _, m := range members {
		if m.ObjectID != "doc-9" {
			t.Fatalf("member from wrong object: %+v", m)
		}
	}

	if _, err := h.mgr.List(ctx, ""); KindOf(err) != KindInvalidInput {
		t.Fatalf("empty object id: kind = %v, want invalid_input", KindOf(err))
	}
}
