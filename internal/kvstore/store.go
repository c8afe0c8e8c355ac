// Package kvstore provides the small persisted key-value store the client
// keeps between sessions (selected cohort, identity fields, credential).
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// Keys consumed by the registration coordinator. The per-field identity keys
// are read independently of the consolidated userId/userRole keys when a join
// request is constructed.
const (
	// KeyCourseID holds a JSON array of course ids; the first element is
	// the active course
	KeyCourseID = "courseId"

	// KeyUserID holds the numeric id of the signed-in user
	KeyUserID = "userId"

	// KeySelectedGeneration holds the selected cohort tag
	KeySelectedGeneration = "selectedGeneration"

	// KeyUserRole holds a JSON-encoded role-to-users mapping
	KeyUserRole = "userRole"

	// KeyToken holds the bearer credential
	KeyToken = "token"

	// KeyIdentityUserID holds the numeric user id used in join requests
	KeyIdentityUserID = "UserId"

	// KeyIdentityLoginID holds the login identifier used in join requests
	KeyIdentityLoginID = "LoginId"

	// KeyIdentityUserName holds the display name used in join requests
	KeyIdentityUserName = "UserName"

	// KeyIdentityRole holds the role string used in join requests
	KeyIdentityRole = "Role"
)

// StoreFileName is the name of the persisted store file
const StoreFileName = "store.json"

// Store defines the interface for persisted key-value access
type Store interface {
	// Get returns the value for key, or "" if the key is absent
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value under key
	Set(ctx context.Context, key, value string) error

	// Delete removes the key if present
	Delete(ctx context.Context, key string) error
}

// fileStore implements Store using a single JSON file on the local filesystem
type fileStore struct {
	basePath string
}

// NewFileStore creates a new file-backed store. basePath is the directory
// where the store file is kept; it is created on first write.
func NewFileStore(basePath string) Store {
	return &fileStore{
		basePath: basePath,
	}
}

// Get returns the value for key, or "" if the key or the store file is absent
func (f *fileStore) Get(_ context.Context, key string) (string, error) {
	values, err := f.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores the value under key
func (f *fileStore) Set(_ context.Context, key, value string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// Delete removes the key if present
func (f *fileStore) Delete(_ context.Context, key string) error {
	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *fileStore) load() (map[string]string, error) {
	filePath := filepath.Join(f.basePath, StoreFileName)

	// #nosec G304 -- filePath is constructed from the configured state directory
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// First run
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store data: %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (f *fileStore) save(values map[string]string) error {
	if err := os.MkdirAll(f.basePath, 0750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	filePath := filepath.Join(f.basePath, StoreFileName)

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store data: %w", err)
	}

	// Write to a temporary file first for atomic replacement
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename store file: %w", err)
	}

	return nil
}
