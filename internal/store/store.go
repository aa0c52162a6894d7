package store

import (
	"context"
	"errors"

	"github.com/nhle/taskpane/internal/model"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ActivityFilter controls filtering and pagination for activity queries.
type ActivityFilter struct {
	Kind    *model.OperationKind
	Outcome *string
	Limit   int
}

// Store defines the persistence interface for mail host profiles and
// the operation activity log.
type Store interface {
	// === Hosts ===

	UpsertHost(ctx context.Context, h model.HostConfig) (model.HostConfig, error)
	GetHosts(ctx context.Context) ([]model.HostConfig, error)
	GetHostByID(ctx context.Context, id string) (*model.HostConfig, error)
	DeleteHost(ctx context.Context, id string) error

	// === Activity ===

	RecordActivity(ctx context.Context, a model.Activity) error
	GetActivity(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
	PruneActivity(ctx context.Context, keep int) (int64, error)
}
