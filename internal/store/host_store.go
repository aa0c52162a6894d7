package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskpane/internal/model"
)

// hostRow mirrors the hosts table; settings are stored as JSON text.
type hostRow struct {
	ID        string    `db:"id"`
	Type      string    `db:"type"`
	Name      string    `db:"name"`
	Settings  string    `db:"settings"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r hostRow) toModel() (model.HostConfig, error) {
	h := model.HostConfig{
		ID:        r.ID,
		Type:      model.HostType(r.Type),
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Settings != "" {
		if err := json.Unmarshal([]byte(r.Settings), &h.Settings); err != nil {
			return model.HostConfig{}, fmt.Errorf("unmarshaling host settings: %w", err)
		}
	}
	return h, nil
}

// UpsertHost inserts a new host profile or updates an existing one.
// If the profile has no ID, a new UUID is generated. The stored profile
// is returned.
func (s *SQLiteStore) UpsertHost(
	ctx context.Context,
	h model.HostConfig,
) (model.HostConfig, error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.Settings == nil {
		h.Settings = map[string]string{}
	}

	settingsJSON, err := json.Marshal(h.Settings)
	if err != nil {
		return model.HostConfig{}, fmt.Errorf("marshaling host settings: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO hosts (id, type, name, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			settings = excluded.settings,
			updated_at = excluded.updated_at`,
		h.ID, string(h.Type), h.Name, string(settingsJSON), now, now,
	)
	if err != nil {
		return model.HostConfig{}, fmt.Errorf("upserting host %s: %w", h.ID, err)
	}

	stored, err := s.GetHostByID(ctx, h.ID)
	if err != nil {
		return model.HostConfig{}, err
	}
	return *stored, nil
}

// GetHosts retrieves all host profiles ordered by name.
func (s *SQLiteStore) GetHosts(ctx context.Context) ([]model.HostConfig, error) {
	var rows []hostRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM hosts ORDER BY name"); err != nil {
		return nil, fmt.Errorf("querying hosts: %w", err)
	}

	hosts := make([]model.HostConfig, 0, len(rows))
	for _, r := range rows {
		h, err := r.toModel()
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}

// GetHostByID retrieves a single host profile. It returns ErrNotFound
// when no profile has that ID.
func (s *SQLiteStore) GetHostByID(
	ctx context.Context,
	id string,
) (*model.HostConfig, error) {
	var r hostRow
	err := s.db.GetContext(ctx, &r, "SELECT * FROM hosts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting host %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting host %s: %w", id, err)
	}

	h, err := r.toModel()
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// DeleteHost removes a host profile by ID.
func (s *SQLiteStore) DeleteHost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM hosts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting host %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("deleting host %s: %w", id, ErrNotFound)
	}
	return nil
}
