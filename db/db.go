package db

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserExists is returned by Register for a username that is already taken.
var ErrUserExists = errors.New("username already exists")

// userRecord is one entry in the user file. PasswordHash holds a bcrypt
// hash. Files written by older builds kept the password in the clear under
// "password"; those entries still verify and upgrade to a hash on their
// next successful login.
type userRecord struct {
	PasswordHash string    `json:"password_hash,omitempty"`
	Password     string    `json:"password,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func (r userRecord) secret() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.Password
}

// UserStore keeps registered users in a JSON file mapping username to a
// record. The whole map lives in memory; the file is rewritten on every
// mutation so a crash never loses an accepted registration.
type UserStore struct {
	mu    sync.Mutex
	path  string
	users map[string]userRecord
}

var (
	store     *UserStore
	storeErr  error
	storeOnce sync.Once
)

// InitUserStore opens (or creates) the store at path. The first call wins;
// later calls return the first call's result, error included.
func InitUserStore(path string) (*UserStore, error) {
	storeOnce.Do(func() {
		store, storeErr = NewUserStore(path)
	})
	return store, storeErr
}

// NewUserStore loads the user file at path. A missing file is an empty
// store, not an error.
func NewUserStore(path string) (*UserStore, error) {
	s := &UserStore{path: path, users: make(map[string]userRecord)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user file %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.users); err != nil {
		return nil, fmt.Errorf("parsing user file %s: %w", path, err)
	}
	return s, nil
}

// Register adds a new user. The password is stored as a bcrypt hash, never
// in the clear.
func (s *UserStore) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.users[username]; taken {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.users[username] = userRecord{
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.save(); err != nil {
		delete(s.users, username)
		return err
	}
	return nil
}

// Verify checks a username/password pair. Unknown users and wrong passwords
// are both a plain false.
func (s *UserStore) Verify(username, password string) bool {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[username]
	if !ok {
		return false
	}

	stored := rec.secret()
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return false
	}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		s.users[username] = userRecord{PasswordHash: string(hash), CreatedAt: rec.CreatedAt}
		if err := s.save(); err != nil {
			log.Printf("Could not upgrade stored password for %s: %v", username, err)
			s.users[username] = rec
		}
	}
	return true
}

// Count reports how many users are registered.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// save rewrites the backing file atomically. Callers hold s.mu.
func (s *UserStore) save() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("creating temp user file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing user file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing user file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("restricting user file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing user file: %w", err)
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
