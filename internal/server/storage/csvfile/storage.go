// Package csvfile persists the user record set as a single CSV file.
//
// Layout: a header row followed by one row per user with columns
// {name, age, gender, email, password, role}. The file carries no id
// column; ids are implicit in row order (id = row position + 1 at load
// time). Saves rewrite the whole file through a temp file + rename so a
// crashed save never leaves a half-written record set behind.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iudanet/fortress/internal/models"
)

// Column order of the persisted layout.
var header = []string{"name", "age", "gender", "email", "password", "role"}

// Storage implements storage.Store on top of a CSV file.
type Storage struct {
	path string
}

// New creates a CSV-backed store at path. The file is not touched until
// the first LoadAll/SaveAll call.
func New(path string) *Storage {
	return &Storage{path: path}
}

// LoadAll reads all user records from the CSV file. A missing file is not
// an error: it yields an empty record set. Malformed rows fail the load.
func (s *Storage) LoadAll(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(f)
	// Rows without a role column are tolerated, see parseRow
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return []models.User{}, nil
	}

	// First row is the header
	users := make([]models.User, 0, len(rows)-1)
	for i, row := range rows[1:] {
		user, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		user.ID = i + 1 // id = row position + 1
		users = append(users, user)
	}

	return users, nil
}

// SaveAll overwrites the CSV file with the full record set. The write goes
// to a temp file in the same directory which is renamed over the target,
// so readers never observe a partial file.
func (s *Storage) SaveAll(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	writeErr := writer.Write(header)
	for _, user := range users {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write([]string{
			user.Name,
			strconv.Itoa(user.Age),
			string(user.Gender),
			user.Email,
			user.PasswordHash,
			string(user.Role),
		})
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}

	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", s.path, writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}

// parseRow converts one CSV row into a user record (without id).
func parseRow(row []string) (models.User, error) {
	if len(row) < 5 {
		return models.User{}, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}

	age, err := strconv.Atoi(row[1])
	if err != nil {
		return models.User{}, fmt.Errorf("invalid age %q: %w", row[1], err)
	}

	gender, err := models.ParseGender(row[2])
	if err != nil {
		return models.User{}, err
	}

	// Files predating the role column default to the lowest privilege
	role := models.RoleUser
	if len(row) > 5 {
		role, err = models.ParseRole(row[5])
		if err != nil {
			return models.User{}, err
		}
	}

	return models.User{
		Name:         row[0],
		Age:          age,
		Gender:       gender,
		Email:        row[3],
		PasswordHash: row[4],
		Role:         role,
	}, nil
}
