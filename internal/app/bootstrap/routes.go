// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/collabware/collabhub/internal/app/collab"
	"github.com/collabware/collabhub/internal/app/collab/codec"
	collabapifeature "github.com/collabware/collabhub/internal/app/features/collabapi"
	healthfeature "github.com/collabware/collabhub/internal/app/features/health"
	"github.com/collabware/collabhub/internal/app/store/audit"
	docstore "github.com/collabware/collabhub/internal/app/store/collabdocs"
	memberstore "github.com/collabware/collabhub/internal/app/store/members"
	publishstore "github.com/collabware/collabhub/internal/app/store/publish"
	"github.com/collabware/collabhub/internal/app/system/accessctrl"
	"github.com/collabware/collabhub/internal/app/system/auditlog"
	"github.com/collabware/collabhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The collab core is wired here:
// mongo-backed stores and the codec behind their capability interfaces,
// then the three managers, then the thin API feature on top.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	folderCodec, err := codec.New()
	if err != nil {
		return nil, fmt.Errorf("init folder codec: %w", err)
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Member:  appCfg.AuditLogMember,
		Publish: appCfg.AuditLogPublish,
	})

	members := collab.NewMemberAccess(
		txn.NewMongoRunner(deps.MongoClient, logger),
		memberstore.New(db),
		accessctrl.New(db),
		auditLog,
		logger,
	)
	docs := docstore.New(db)
	folders := collab.NewMaterializer(docs, folderCodec, logger)
	publish := collab.NewPublishResolver(docs, folderCodec, publishstore.New(db), logger)

	r := chi.NewRouter()
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Mount("/api", collabapifeature.Routes(collabapifeature.NewHandler(members, folders, publish, logger)))

	return r, nil
}
