// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique index on collab_members (uid, object_id) is load-bearing: it
is what serializes concurrent creates for the same key so at most one
succeeds. The access_policies index mirrors it so policy entries cannot
fan out per pair.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureCollabMembers(ctx, db); err != nil {
		problems = append(problems, "collab_members: "+err.Error())
	}
	if err := ensureAccessPolicies(ctx, db); err != nil {
		problems = append(problems, "access_policies: "+err.Error())
	}
	if err := ensureCollabDocuments(ctx, db); err != nil {
		problems = append(problems, "collab_documents: "+err.Error())
	}
	if err := ensurePublishNamespaces(ctx, db); err != nil {
		problems = append(problems, "publish_namespaces: "+err.Error())
	}
	if err := ensurePublishedViews(ctx, db); err != nil {
		problems = append(problems, "published_views: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollabMembers(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "collab_members", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "object_id", Value: 1}},
			Options: options.Index().SetName("uniq_uid_object").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "object_id", Value: 1}},
			Options: options.Index().SetName("by_object"),
		},
	})
}

func ensureAccessPolicies(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "access_policies", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "object_id", Value: 1}},
			Options: options.Index().SetName("uniq_uid_object").SetUnique(true),
		},
	})
}

func ensureCollabDocuments(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "collab_documents", []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "object_id", Value: 1},
				{Key: "collab_type", Value: 1},
			},
			Options: options.Index().SetName("uniq_workspace_object_type").SetUnique(true),
		},
	})
}

func ensurePublishNamespaces(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "publish_namespaces", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "namespace", Value: 1}},
			Options: options.Index().SetName("uniq_namespace").SetUnique(true),
		},
	})
}

func ensurePublishedViews(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, "published_views", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "view_id", Value: 1}},
			Options: options.Index().SetName("uniq_workspace_view").SetUnique(true),
		},
	})
}

// createIndexes applies the desired index models to one collection.
// CreateMany is idempotent when names and keys match what exists; a
// conflicting definition surfaces as an error rather than being patched
// silently, so operators see schema drift at startup.
func createIndexes(ctx context.Context, db *mongo.Database, coll string, desired []mongo.IndexModel) error {
	names, err := db.Collection(coll).Indexes().CreateMany(ctx, desired)
	if err != nil {
		return err
	}
	zap.L().Info("indexes ensured",
		zap.String("collection", coll),
		zap.Strings("indexes", names),
	)
	return nil
}
