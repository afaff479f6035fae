package terrain

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/formats"
)

// StoreConfig describes where height tiles live and how large they are.
type StoreConfig struct {
	Folder string
	Prefix string
	Ext    string // ".r16", or ".r16.zst" for zstd-compressed tiles
	Width  int
	Height int
}

// Path returns the file for coord: {folder}/{prefix}_y{z}_x{x}{ext}.
func (c StoreConfig) Path(coord TileCoord) string {
	return filepath.Join(c.Folder, fmt.Sprintf("%s_y%d_x%d%s", c.Prefix, coord.Z, coord.X, c.Ext))
}

// TileStore loads height tiles on demand and keeps every loaded tile for
// the life of the store. Failed loads are not cached, so the next Fetch
// for the same coordinate tries the disk again.
type TileStore struct {
	cfg StoreConfig
	log *zap.Logger

	mu     sync.RWMutex
	tiles  map[TileCoord]*Tile
	warned map[TileCoord]struct{}
}

// NewTileStore creates an empty store.
func NewTileStore(cfg StoreConfig) *TileStore {
	return &TileStore{
		cfg:    cfg,
		log:    logger.Named("tiles"),
		tiles:  make(map[TileCoord]*Tile),
		warned: make(map[TileCoord]struct{}),
	}
}

// Config returns the store configuration.
func (s *TileStore) Config() StoreConfig {
	return s.cfg
}

// Fetch returns the tile at coord, loading it from disk on a cache miss.
// It reports false when the file is missing, too short, or unreadable.
func (s *TileStore) Fetch(coord TileCoord) (*Tile, bool) {
	s.mu.RLock()
	tile, ok := s.tiles[coord]
	s.mu.RUnlock()
	if ok {
		return tile, true
	}

	path := s.cfg.Path(coord)
	raw, err := formats.ReadRAW16File(path, s.cfg.Width, s.cfg.Height)
	if err != nil {
		s.noteMiss(coord, path, err)
		return nil, false
	}
	loaded := NewTile(coord, raw.Width, raw.Height, raw.Samples)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent Fetch may have won; keep the first tile so handles
	// already given out stay canonical.
	if tile, ok := s.tiles[coord]; ok {
		return tile, true
	}
	s.tiles[coord] = loaded
	delete(s.warned, coord)
	s.log.Debug("tile loaded", zap.Stringer("coord", coord), zap.String("path", path))
	return loaded, true
}

// Cached returns the tile at coord if it is already loaded. It never
// reads from disk.
func (s *TileStore) Cached(coord TileCoord) (*Tile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tile, ok := s.tiles[coord]
	return tile, ok
}

// noteMiss logs a failed load. The first miss per coordinate is a warning,
// repeats are debug noise. Nothing here affects retry behaviour.
func (s *TileStore) noteMiss(coord TileCoord, path string, err error) {
	s.mu.Lock()
	_, seen := s.warned[coord]
	s.warned[coord] = struct{}{}
	s.mu.Unlock()

	if seen {
		s.log.Debug("tile unavailable", zap.Stringer("coord", coord), zap.Error(err))
		return
	}
	s.log.Warn("tile unavailable", zap.Stringer("coord", coord), zap.String("path", path), zap.Error(err))
}

// Put inserts an in-memory tile, replacing any cached one.
func (s *TileStore) Put(tile *Tile) {
	s.mu.Lock()
	s.tiles[tile.Coord()] = tile
	s.mu.Unlock()
}

// Len returns the number of cached tiles.
func (s *TileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}
