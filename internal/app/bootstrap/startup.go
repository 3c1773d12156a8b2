// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CollabHub keeps no warm state; this just records the effective
// configuration.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("collabhub starting",
		zap.String("mongo_database", appCfg.MongoDatabase),
		zap.String("audit_log_member", appCfg.AuditLogMember),
	)
	return nil
}
