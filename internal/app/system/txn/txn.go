// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner scopes a function to one atomic transaction. The context passed
// to fn carries the session; every store call made with it joins the
// same transaction. If fn returns an error the transaction is aborted
// and that error is returned. A failure during commit itself is returned
// as *CommitError so callers can tell "rolled back cleanly" apart from
// "commit outcome ambiguous".
type Runner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CommitError reports that the transaction body succeeded but the commit
// did not. Recovery state is ambiguous: side effects outside the
// transaction (e.g. an external policy update) may have been applied.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit transaction: %v", e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// MongoRunner runs transactions on a MongoDB session. On deployments
// without transaction support (standalone servers, some DocumentDB
// versions) it degrades to running fn without an atomic scope, with a
// warning, so local development against a bare mongod still works.
type MongoRunner struct {
	client *mongo.Client
	log    *zap.Logger
}

func NewMongoRunner(client *mongo.Client, logger *zap.Logger) *MongoRunner {
	if logger == nil {
		logger = zap.L()
	}
	return &MongoRunner{client: client, log: logger}
}

func (r *MongoRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.log.Warn("sessions unsupported; running without atomic scope", zap.Error(err))
			return fn(ctx)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return fmt.Errorf("start transaction: %w", err)
		}
		if err := fn(sc); err != nil {
			// Abort failure is secondary; the driver also aborts on
			// session end. The original error is what matters.
			_ = session.AbortTransaction(sc)
			return err
		}
		if err := session.CommitTransaction(sc); err != nil {
			return &CommitError{Err: err}
		}
		return nil
	})
	if err != nil && IsNotSupported(err) {
		r.log.Warn("transactions unsupported; running without atomic scope", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, DocumentDB, or a
// non-replica-set member). Matches both the structured command error
// codes and the message text some proxies return.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, OperationFailed variants for txn on standalone
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session") || strings.Contains(msg, "illegal operation")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
