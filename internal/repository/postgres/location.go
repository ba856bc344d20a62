package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"packrat/internal/domain"
	"packrat/internal/domain/models"
	"packrat/internal/domain/repositories"
)

// PostgresLocationRepository implements the LocationRepository interface
type PostgresLocationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(config *RepositoryConfig) repositories.LocationRepository {
	return &PostgresLocationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const locationColumns = "id, owner_id, parent_id, name, path_ids, path_names, depth, created_at, updated_at"

func scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.OwnerID,
		&loc.ParentID,
		&loc.Name,
		&loc.PathIDs,
		&loc.PathNames,
		&loc.Depth,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create persists a new location including its materialized path
func (r *PostgresLocationRepository) Create(ctx context.Context, loc *models.Location) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, name, path_ids, path_names, depth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Locations)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		loc.ID,
		loc.OwnerID,
		loc.ParentID,
		loc.Name,
		loc.PathIDs,
		loc.PathNames,
		loc.Depth,
		loc.CreatedAt,
		loc.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("location %s: %w", loc.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent location: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create location: %w", err)
	}

	return nil
}

// GetByID retrieves a location by id, scoped to the owner
func (r *PostgresLocationRepository) GetByID(ctx context.Context, id string, ownerID int64) (*models.Location, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, locationColumns, r.tables.Locations)

	loc, err := scanLocation(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("location %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}

	return loc, nil
}

// Update persists name, parent and path changes for a single location
func (r *PostgresLocationRepository) Update(ctx context.Context, loc *models.Location) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, path_ids = $3, path_names = $4, depth = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8
	`, r.tables.Locations)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		loc.ParentID,
		loc.Name,
		loc.PathIDs,
		loc.PathNames,
		loc.Depth,
		loc.UpdatedAt,
		loc.ID,
		loc.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", loc.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdatePaths rewrites the materialized path of several locations at once
func (r *PostgresLocationRepository) UpdatePaths(ctx context.Context, ownerID int64, locs []*models.Location) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path_ids = $1, path_names = $2, depth = $3, updated_at = now()
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Locations)

	exec := GetExecutor(ctx, r.pool)
	for _, loc := range locs {
		result, err := exec.Exec(ctx, query,
			loc.PathIDs,
			loc.PathNames,
			loc.Depth,
			loc.ID,
			ownerID,
		)
		if err != nil {
			return fmt.Errorf("update path of location %s: %w", loc.ID, err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("location %s: %w", loc.ID, domain.ErrNotFound)
		}
	}

	return nil
}

// Delete removes a single location
func (r *PostgresLocationRepository) Delete(ctx context.Context, id string, ownerID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Locations)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("location %s still has contents: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs removes a set of locations belonging to one owner. Callers
// pass whole subtrees; the self-referencing parent_id FK is checked at the
// end of the statement, so parents and children can go in one DELETE without
// any ordering.
func (r *PostgresLocationRepository) DeleteByIDs(ctx context.Context, ownerID int64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND id = ANY($2)
	`, r.tables.Locations)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, ids)
	if err != nil {
		return fmt.Errorf("delete locations: %w", err)
	}

	return nil
}

// GetChildren lists immediate children of a location (nil = roots), ordered
// by name. Byte-order collation ("C") keeps the ordering deterministic
// across database locales.
func (r *PostgresLocationRepository) GetChildren(ctx context.Context, parentID *string, ownerID int64) ([]models.Location, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY name COLLATE "C" ASC
		`, locationColumns, r.tables.Locations)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY name COLLATE "C" ASC
		`, locationColumns, r.tables.Locations)
		args = append(args, ownerID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list location children: %w", err)
	}
	defer rows.Close()

	return collectLocations(rows)
}

// GetDescendantIDs expands the child relation transitively via a recursive
// CTE and returns every id below the given location, excluding itself
func (r *PostgresLocationRepository) GetDescendantIDs(ctx context.Context, id string, ownerID int64) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s
			WHERE parent_id = $1 AND owner_id = $2
			UNION ALL
			SELECT l.id
			FROM %s l
			JOIN subtree s ON l.parent_id = s.id
			WHERE l.owner_id = $2
		)
		SELECT id FROM subtree
	`, r.tables.Locations, r.tables.Locations)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get descendant ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var descID string
		if err := rows.Scan(&descID); err != nil {
			return nil, fmt.Errorf("scan descendant id: %w", err)
		}
		ids = append(ids, descID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate descendant ids: %w", err)
	}

	return ids, nil
}

// GetByIDs fetches several locations at once
func (r *PostgresLocationRepository) GetByIDs(ctx context.Context, ownerID int64, ids []string) ([]*models.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND id = ANY($2)
	`, locationColumns, r.tables.Locations)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("get locations by ids: %w", err)
	}
	defer rows.Close()

	var locs []*models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return locs, nil
}

// CountChildrenAndItems computes the cascade-delete impact for a location:
// immediate children, items directly at it, and items anywhere in its subtree
// including itself
func (r *PostgresLocationRepository) CountChildrenAndItems(ctx context.Context, id string, ownerID int64) (*models.DeleteImpact, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s
			WHERE id = $1 AND owner_id = $2
			UNION ALL
			SELECT l.id
			FROM %s l
			JOIN subtree s ON l.parent_id = s.id
			WHERE l.owner_id = $2
		)
		SELECT
			(SELECT count(*) FROM %s WHERE parent_id = $1 AND owner_id = $2),
			(SELECT count(*) FROM %s WHERE location_id = $1 AND owner_id = $2),
			(SELECT count(*) FROM %s WHERE owner_id = $2 AND location_id IN (SELECT id FROM subtree))
	`, r.tables.Locations, r.tables.Locations, r.tables.Locations, r.tables.Items, r.tables.Items)

	var impact models.DeleteImpact
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&impact.ChildCount,
		&impact.ItemCount,
		&impact.TotalDescendantItems,
	)
	if err != nil {
		return nil, fmt.Errorf("count children and items: %w", err)
	}

	return &impact, nil
}

// GetAll retrieves every location of an owner as a flat list
func (r *PostgresLocationRepository) GetAll(ctx context.Context, ownerID int64) ([]models.Location, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY depth ASC, name COLLATE "C" ASC
	`, locationColumns, r.tables.Locations)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get all locations: %w", err)
	}
	defer rows.Close()

	return collectLocations(rows)
}

// CountByOwner returns how many locations an owner has
func (r *PostgresLocationRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE owner_id = $1`, r.tables.Locations)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return count, nil
}

func collectLocations(rows pgx.Rows) ([]models.Location, error) {
	var locs []models.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, *loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}

	return locs, nil
}
