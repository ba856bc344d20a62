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

// PostgresItemRepository implements the ItemRepository interface
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *RepositoryConfig) repositories.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const itemColumns = "id, owner_id, location_id, name, description, quantity, created_at, updated_at"

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.LocationID,
		&item.Name,
		&item.Description,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a new item
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, location_id, name, description, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Items)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.OwnerID,
		item.LocationID,
		item.Name,
		item.Description,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("location %s: %w", item.LocationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by id, scoped to the owner
func (r *PostgresItemRepository) GetByID(ctx context.Context, id string, ownerID int64) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, itemColumns, r.tables.Items)

	item, err := scanItem(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// Update persists item changes
func (r *PostgresItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET location_id = $1, name = $2, description = $3, quantity = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`, r.tables.Items)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.LocationID,
		item.Name,
		item.Description,
		item.Quantity,
		item.UpdatedAt,
		item.ID,
		item.OwnerID,
	)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("location %s: %w", item.LocationID, domain.ErrNotFound)
		}
		return fmt.Errorf("update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an item
func (r *PostgresItemRepository) Delete(ctx context.Context, id string, ownerID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Items)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByLocationIDs removes every item stored at any of the given locations
func (r *PostgresItemRepository) DeleteByLocationIDs(ctx context.Context, ownerID int64, locationIDs []string) error {
	if len(locationIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND location_id = ANY($2)
	`, r.tables.Items)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ownerID, locationIDs)
	if err != nil {
		return fmt.Errorf("delete items by location: %w", err)
	}

	return nil
}

// ListByLocation lists items directly at one location, ordered by name
func (r *PostgresItemRepository) ListByLocation(ctx context.Context, locationID string, ownerID int64) ([]models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE location_id = $1 AND owner_id = $2
		ORDER BY name COLLATE "C" ASC
	`, itemColumns, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, locationID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// CountByLocations maps each given location id to its direct item count
func (r *PostgresItemRepository) CountByLocations(ctx context.Context, ownerID int64, locationIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(locationIDs))
	if len(locationIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT location_id, count(*)
		FROM %s
		WHERE owner_id = $1 AND location_id = ANY($2)
		GROUP BY location_id
	`, r.tables.Items)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("count items by location: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var locationID string
		var count int
		if err := rows.Scan(&locationID, &count); err != nil {
			return nil, fmt.Errorf("scan item count: %w", err)
		}
		counts[locationID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item counts: %w", err)
	}

	return counts, nil
}

// SearchByName runs a trigram-ranked name search. Matching is delegated to
// pg_trgm: a row matches when its name contains the query (case-insensitive)
// or is trigram-similar to it, and results are ordered by similarity. An
// empty query lists everything in scope ordered by name.
func (r *PostgresItemRepository) SearchByName(ctx context.Context, q repositories.ItemSearchQuery) ([]models.Item, int, error) {
	where := "owner_id = $1"
	args := []interface{}{q.OwnerID}

	if q.LocationIDs != nil {
		args = append(args, q.LocationIDs)
		where += fmt.Sprintf(" AND location_id = ANY($%d)", len(args))
	}

	orderBy := `name COLLATE "C" ASC`
	if q.Query != "" {
		args = append(args, q.Query)
		n := len(args)
		where += fmt.Sprintf(" AND (name ILIKE '%%' || $%d || '%%' OR similarity(name, $%d) > 0.3)", n, n)
		orderBy = fmt.Sprintf(`similarity(name, $%d) DESC, name COLLATE "C" ASC`, n)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, r.tables.Items, where)

	var total int
	exec := GetExecutor(ctx, r.pool)
	if err := exec.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search matches: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, itemColumns, r.tables.Items, where, orderBy, len(args)-1, len(args))

	rows, err := exec.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// CountByOwner returns how many items an owner has
func (r *PostgresItemRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE owner_id = $1`, r.tables.Items)

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
