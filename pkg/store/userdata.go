package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

const userDataFile = "user_data.json"

// FeedUserData is the read-state of one feed
type FeedUserData struct {
	ReadIDs []uint64 `json:"read_ids"`
}

// UserData maps feed ids to their read-state
type UserData struct {
	feeds map[string]*FeedUserData
}

// NewUserData makes empty read-state
func NewUserData() *UserData {
	return &UserData{feeds: map[string]*FeedUserData{}}
}

// OpenUserData loads user_data.json under root, a missing file is empty read-state
func OpenUserData(root string) (*UserData, error) {
	path := filepath.Join(root, userDataFile)
	data, err := os.ReadFile(path) //nolint:gosec // path is under the storage root
	if errors.Is(err, fs.ErrNotExist) {
		return NewUserData(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	feeds := map[string]*FeedUserData{}
	if err := json.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	for id, fd := range feeds {
		if fd == nil {
			delete(feeds, id)
			continue
		}
		slices.Sort(fd.ReadIDs)
		fd.ReadIDs = slices.Compact(fd.ReadIDs)
	}
	return &UserData{feeds: feeds}, nil
}

// MarkRead adds item ids to the read set of the feed, returns true if any was new
func (u *UserData) MarkRead(feedID string, itemIDs ...uint64) bool {
	fd, ok := u.feeds[feedID]
	if !ok {
		fd = &FeedUserData{}
		u.feeds[feedID] = fd
	}
	added := false
	for _, id := range itemIDs {
		idx, found := slices.BinarySearch(fd.ReadIDs, id)
		if found {
			continue
		}
		fd.ReadIDs = slices.Insert(fd.ReadIDs, idx, id)
		added = true
	}
	return added
}

// IsRead checks if the item of the feed is marked read
func (u *UserData) IsRead(feedID string, itemID uint64) bool {
	fd, ok := u.feeds[feedID]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(fd.ReadIDs, itemID)
	return found
}

// Marshal serializes the read-state, pretty-printed
func (u *UserData) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(u.feeds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal user data: %w", err)
	}
	return data, nil
}

// SaveUserData writes serialized read-state under root. Shrinking is always allowed here.
func SaveUserData(root string, data []byte) error {
	_, err := SafeSave(filepath.Join(root, userDataFile), data, true)
	return err
}
