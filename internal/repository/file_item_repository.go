package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"item-detail/internal/domain"

	"go.uber.org/zap"
)

// listingKey is the uniqueness key: no two items may share a seller and a
// normalized title.
type listingKey struct {
	sellerID  string
	titleNorm string
}

func keyOf(item *domain.Item) listingKey {
	return listingKey{sellerID: item.SellerID(), titleNorm: item.TitleNormalized()}
}

// FileItemRepository keeps all items in two in-memory indices and mirrors
// them to a JSON file on every successful write. Both indices are guarded by
// a single reader/writer lock and are always updated together.
//
// Persistence is crash-safe: the full item list is written to items.json.tmp,
// copied to items.json.bak, then atomically renamed onto items.json. The
// primary file is therefore always a complete snapshot, and the backup lags
// it by at most one successful write. A persist failure propagates to the
// caller but does not roll back the in-memory indices; memory and disk can
// diverge until the next successful write.
type FileItemRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Item
	byKey  map[listingKey]string
	logger *zap.Logger

	dataPath string
	tmpPath  string
	bakPath  string
}

// NewFileItemRepository loads items.json from dataDir, falling back to the
// backup file and finally to an empty store when the primary cannot be read.
func NewFileItemRepository(dataDir string, logger *zap.Logger) (*FileItemRepository, error) {
	r := &FileItemRepository{
		byID:     make(map[string]*domain.Item),
		byKey:    make(map[listingKey]string),
		logger:   logger,
		dataPath: filepath.Join(dataDir, "items.json"),
		tmpPath:  filepath.Join(dataDir, "items.json.tmp"),
		bakPath:  filepath.Join(dataDir, "items.json.bak"),
	}

	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileItemRepository) init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.dataPath), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(r.dataPath); os.IsNotExist(err) {
		r.logger.Info("Data file does not exist, creating initial empty file",
			zap.String("path", r.dataPath))
		return r.persistLocked()
	}

	if err := r.loadFrom(r.dataPath); err != nil {
		r.logger.Error("Failed to load data file, attempting recovery",
			zap.String("path", r.dataPath), zap.Error(err))
		return r.restoreBackupOrReset()
	}

	r.logger.Info("Repository initialized", zap.Int("items", len(r.byID)))
	return nil
}

// loadFrom replaces both indices with the contents of path. Caller holds the
// write lock.
func (r *FileItemRepository) loadFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []*domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	r.byID = make(map[string]*domain.Item, len(items))
	r.byKey = make(map[listingKey]string, len(items))
	for _, it := range items {
		r.byID[it.ID()] = it
		r.byKey[keyOf(it)] = it.ID()
	}
	return nil
}

func (r *FileItemRepository) restoreBackupOrReset() error {
	if _, err := os.Stat(r.bakPath); err == nil {
		r.logger.Warn("Attempting to restore from backup", zap.String("path", r.bakPath))
		if err := r.loadFrom(r.bakPath); err == nil {
			r.logger.Info("Restored items from backup", zap.Int("items", len(r.byID)))
			return r.persistLocked()
		}
		r.logger.Error("Backup restore failed", zap.String("path", r.bakPath))
	} else {
		r.logger.Warn("No backup file exists", zap.String("path", r.bakPath))
	}

	r.logger.Warn("Resetting repository to empty state")
	r.byID = make(map[string]*domain.Item)
	r.byKey = make(map[listingKey]string)
	return r.persistLocked()
}

// persistLocked writes the full item set to disk. Caller holds the write
// lock, so no reader ever observes an index state whose file write is still
// in flight.
func (r *FileItemRepository) persistLocked() error {
	items := make([]*domain.Item, 0, len(r.byID))
	for _, it := range r.byID {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	if err := os.WriteFile(r.tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := copyFile(r.tmpPath, r.bakPath); err != nil {
		return fmt.Errorf("failed to update backup file: %w", err)
	}
	if err := os.Rename(r.tmpPath, r.dataPath); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// less is the stable listing order: normalized title, then id.
func less(a, b *domain.Item) bool {
	if c := strings.Compare(a.TitleNormalized(), b.TitleNormalized()); c != 0 {
		return c < 0
	}
	return a.ID() < b.ID()
}

// FindByID retrieves a copy of the item with the given id.
func (r *FileItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it.Clone(), nil
}

// FindBySellerAndTitle retrieves a copy of the item holding the given
// uniqueness key.
func (r *FileItemRepository) FindBySellerAndTitle(ctx context.Context, sellerID, titleNormalized string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[listingKey{sellerID: sellerID, titleNorm: titleNormalized}]
	if !ok {
		return nil, ErrItemNotFound
	}
	it, ok := r.byID[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it.Clone(), nil
}

// FindAll returns the requested page in stable listing order. Out-of-range
// pages, negative pages and non-positive sizes yield an empty slice, not an
// error.
func (r *FileItemRepository) FindAll(ctx context.Context, page, size int) ([]*domain.Item, error) {
	if page < 0 || size <= 0 {
		return []*domain.Item{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.Item, 0, len(r.byID))
	for _, it := range r.byID {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })

	// page*size can overflow for huge pages; any page past the data is
	// empty, so bound the page before multiplying.
	if page > len(items)/size {
		return []*domain.Item{}, nil
	}
	from := page * size
	if from > len(items) {
		from = len(items)
	}
	to := from + size
	if to > len(items) {
		to = len(items)
	}

	out := make([]*domain.Item, 0, to-from)
	for _, it := range items[from:to] {
		out = append(out, it.Clone())
	}
	return out, nil
}

// Save upserts an item. A uniqueness key already held by a different id is a
// conflict. When the item's title changed, the stale key entry from its
// previous value is removed in the same critical section. The disk persist
// runs under the write lock; a persist failure propagates but leaves the
// already-advanced indices in place.
func (r *FileItemRepository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: item required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(item.ID()) == "" {
		return nil, fmt.Errorf("%w: item id required", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(item.SellerID()) == "" || item.TitleNormalized() == "" {
		return nil, fmt.Errorf("%w: item sellerId and title required", domain.ErrInvalidArgument)
	}

	key := keyOf(item)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID, ok := r.byKey[key]; ok && existingID != item.ID() {
		r.logger.Warn("Duplicate listing rejected",
			zap.String("seller_id", item.SellerID()),
			zap.String("title_normalized", item.TitleNormalized()),
			zap.String("existing_id", existingID))
		return nil, ErrDuplicateListing
	}

	if prev, ok := r.byID[item.ID()]; ok {
		if prevKey := keyOf(prev); prevKey != key {
			delete(r.byKey, prevKey)
		}
	}

	stored := item.Clone()
	r.byID[stored.ID()] = stored
	r.byKey[key] = stored.ID()

	if err := r.persistLocked(); err != nil {
		r.logger.Error("Failed to persist items", zap.Error(err))
		return nil, err
	}

	r.logger.Info("Item saved", zap.String("id", stored.ID()))
	return stored.Clone(), nil
}

// DeleteByID removes an item from both indices and persists. Reports whether
// the item existed.
func (r *FileItemRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok {
		return false, nil
	}

	delete(r.byID, id)
	delete(r.byKey, keyOf(it))

	if err := r.persistLocked(); err != nil {
		r.logger.Error("Failed to persist items after delete", zap.Error(err))
		return false, err
	}

	r.logger.Info("Item deleted", zap.String("id", id))
	return true, nil
}

// Count returns the number of stored items.
func (r *FileItemRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
