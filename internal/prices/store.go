package prices

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// Key identifies one published day of prices for one bidding zone.
// The date is a Europe/Oslo calendar day, the provider's publication unit.
type Key struct {
	Year  int
	Month int
	Day   int
	Area  model.PriceArea
}

// KeyFor takes the calendar date of t in its own location.
func KeyFor(t time.Time, area model.PriceArea) Key {
	y, m, d := t.Date()
	return Key{Year: y, Month: int(m), Day: d, Area: area}
}

func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d-%02d/%s", k.Year, k.Month, k.Day, k.Area.Code())
}

// URLPath is the provider's path segment: "{year}/{month}-{day}_{AREA}.json".
func (k Key) URLPath() string {
	return fmt.Sprintf("%04d/%02d-%02d_%s.json", k.Year, k.Month, k.Day, k.Area.Code())
}

// FilePath is the cache layout: "{year}/{month}/{day}_{AREA}.json".
func (k Key) FilePath() string {
	return filepath.Join(
		fmt.Sprintf("%04d", k.Year),
		fmt.Sprintf("%02d", k.Month),
		fmt.Sprintf("%02d_%s.json", k.Day, k.Area.Code()),
	)
}

// FileStore persists raw day-price JSON under a root directory, one file
// per (day, area) key. Presence of the file short-circuits network fetches.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Load reads a cached day. The second return is false when the key has
// never been stored.
func (s *FileStore) Load(key Key) ([]byte, bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.Dir, key.FilePath()))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached prices for %s: %w", key, err)
	}
	return raw, true, nil
}

// Save writes a day's raw JSON. Overwrites are harmless: published prices
// for a historical day never change.
func (s *FileStore) Save(key Key, raw []byte) error {
	path := filepath.Join(s.Dir, key.FilePath())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write cached prices for %s: %w", key, err)
	}
	return nil
}
