package service

import (
	"context"
	"sort"
	"strings"

	"packrat/internal/domain"
	"packrat/internal/domain/models"
	"packrat/internal/domain/repositories"
)

// fakeStore is an in-memory backing store shared by the fake repositories.
// It tracks write calls so tests can assert that no-op updates stay no-op.
type fakeStore struct {
	locations map[string]*models.Location
	items     map[string]*models.Item

	locationUpdates int
	pathUpdates     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		locations: make(map[string]*models.Location),
		items:     make(map[string]*models.Item),
	}
}

func copyLocation(loc *models.Location) *models.Location {
	cp := *loc
	cp.PathIDs = append([]string(nil), loc.PathIDs...)
	cp.PathNames = append([]string(nil), loc.PathNames...)
	return &cp
}

func copyItem(item *models.Item) *models.Item {
	cp := *item
	return &cp
}

type fakeLocationRepo struct {
	store *fakeStore
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *models.Location) error {
	for _, existing := range r.store.locations {
		if existing.OwnerID == loc.OwnerID && existing.Name == loc.Name && samePtr(existing.ParentID, loc.ParentID) {
			return domain.ErrConflict
		}
	}
	r.store.locations[loc.ID] = copyLocation(loc)
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string, ownerID int64) (*models.Location, error) {
	loc, ok := r.store.locations[id]
	if !ok || loc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return copyLocation(loc), nil
}

func (r *fakeLocationRepo) Update(_ context.Context, loc *models.Location) error {
	existing, ok := r.store.locations[loc.ID]
	if !ok || existing.OwnerID != loc.OwnerID {
		return domain.ErrNotFound
	}
	r.store.locations[loc.ID] = copyLocation(loc)
	r.store.locationUpdates++
	return nil
}

func (r *fakeLocationRepo) UpdatePaths(_ context.Context, ownerID int64, locs []*models.Location) error {
	for _, loc := range locs {
		existing, ok := r.store.locations[loc.ID]
		if !ok || existing.OwnerID != ownerID {
			return domain.ErrNotFound
		}
		r.store.locations[loc.ID] = copyLocation(loc)
	}
	r.store.pathUpdates += len(locs)
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id string, ownerID int64) error {
	loc, ok := r.store.locations[id]
	if !ok || loc.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.store.locations, id)
	return nil
}

func (r *fakeLocationRepo) DeleteByIDs(_ context.Context, ownerID int64, ids []string) error {
	for _, id := range ids {
		if loc, ok := r.store.locations[id]; ok && loc.OwnerID == ownerID {
			delete(r.store.locations, id)
		}
	}
	return nil
}

func (r *fakeLocationRepo) GetChildren(_ context.Context, parentID *string, ownerID int64) ([]models.Location, error) {
	var out []models.Location
	for _, loc := range r.store.locations {
		if loc.OwnerID == ownerID && samePtr(loc.ParentID, parentID) {
			out = append(out, *copyLocation(loc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLocationRepo) GetDescendantIDs(_ context.Context, id string, ownerID int64) ([]string, error) {
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, loc := range r.store.locations {
			if loc.OwnerID == ownerID && loc.ParentID != nil && *loc.ParentID == current {
				out = append(out, loc.ID)
				queue = append(queue, loc.ID)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeLocationRepo) GetByIDs(_ context.Context, ownerID int64, ids []string) ([]*models.Location, error) {
	out := make([]*models.Location, 0, len(ids))
	for _, id := range ids {
		if loc, ok := r.store.locations[id]; ok && loc.OwnerID == ownerID {
			out = append(out, copyLocation(loc))
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) CountChildrenAndItems(ctx context.Context, id string, ownerID int64) (*models.DeleteImpact, error) {
	impact := &models.DeleteImpact{}
	for _, loc := range r.store.locations {
		if loc.OwnerID == ownerID && loc.ParentID != nil && *loc.ParentID == id {
			impact.ChildCount++
		}
	}

	descendantIDs, err := r.GetDescendantIDs(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	subtree := make(map[string]bool, len(descendantIDs)+1)
	subtree[id] = true
	for _, d := range descendantIDs {
		subtree[d] = true
	}

	for _, item := range r.store.items {
		if item.OwnerID != ownerID {
			continue
		}
		if item.LocationID == id {
			impact.ItemCount++
		}
		if subtree[item.LocationID] {
			impact.TotalDescendantItems++
		}
	}
	return impact, nil
}

func (r *fakeLocationRepo) GetAll(_ context.Context, ownerID int64) ([]models.Location, error) {
	var out []models.Location
	for _, loc := range r.store.locations {
		if loc.OwnerID == ownerID {
			out = append(out, *copyLocation(loc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *fakeLocationRepo) CountByOwner(_ context.Context, ownerID int64) (int, error) {
	count := 0
	for _, loc := range r.store.locations {
		if loc.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type fakeItemRepo struct {
	store *fakeStore
}

func (r *fakeItemRepo) Create(_ context.Context, item *models.Item) error {
	r.store.items[item.ID] = copyItem(item)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string, ownerID int64) (*models.Item, error) {
	item, ok := r.store.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return copyItem(item), nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *models.Item) error {
	existing, ok := r.store.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return domain.ErrNotFound
	}
	r.store.items[item.ID] = copyItem(item)
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string, ownerID int64) error {
	item, ok := r.store.items[id]
	if !ok || item.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.store.items, id)
	return nil
}

func (r *fakeItemRepo) DeleteByLocationIDs(_ context.Context, ownerID int64, locationIDs []string) error {
	doomed := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		doomed[id] = true
	}
	for id, item := range r.store.items {
		if item.OwnerID == ownerID && doomed[item.LocationID] {
			delete(r.store.items, id)
		}
	}
	return nil
}

func (r *fakeItemRepo) ListByLocation(_ context.Context, locationID string, ownerID int64) ([]models.Item, error) {
	var out []models.Item
	for _, item := range r.store.items {
		if item.OwnerID == ownerID && item.LocationID == locationID {
			out = append(out, *copyItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeItemRepo) CountByLocations(_ context.Context, ownerID int64, locationIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	wanted := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		wanted[id] = true
	}
	for _, item := range r.store.items {
		if item.OwnerID == ownerID && wanted[item.LocationID] {
			counts[item.LocationID]++
		}
	}
	return counts, nil
}

func (r *fakeItemRepo) SearchByName(_ context.Context, q repositories.ItemSearchQuery) ([]models.Item, int, error) {
	var scope map[string]bool
	if q.LocationIDs != nil {
		scope = make(map[string]bool, len(q.LocationIDs))
		for _, id := range q.LocationIDs {
			scope[id] = true
		}
	}

	var matches []models.Item
	needle := strings.ToLower(q.Query)
	for _, item := range r.store.items {
		if item.OwnerID != q.OwnerID {
			continue
		}
		if scope != nil && !scope[item.LocationID] {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		matches = append(matches, *copyItem(item))
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	total := len(matches)
	if q.Offset >= total {
		return []models.Item{}, total, nil
	}
	matches = matches[q.Offset:]
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, total, nil
}

func (r *fakeItemRepo) CountByOwner(_ context.Context, ownerID int64) (int, error) {
	count := 0
	for _, item := range r.store.items {
		if item.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

// fakeTxManager just runs the function; the fakes have no transactional
// behavior to exercise.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
