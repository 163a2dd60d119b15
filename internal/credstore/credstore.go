// Package credstore provides encrypted local storage for API credentials.
// It stands in for a system keychain: values are AES-256-GCM encrypted
// and kept in a small SQLite database, addressed by service and key
// name.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlokans/goodreads-backup/internal/crypto"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// ServiceGoodreads is the service name credentials are stored under.
	ServiceGoodreads = "goodreads"

	// KeyUserID and KeyAPIKey are the recognized credential keys.
	KeyUserID = "user_id"
	KeyAPIKey = "api_key"

	// EnvEncryptionKey is the environment variable for the encryption key
	EnvEncryptionKey = "BACKUP_ENCRYPTION_KEY"

	// DefaultKeyFileName is the default name for the key file
	DefaultKeyFileName = ".goodreads-backup-key"
)

// Credential is one encrypted credential row.
type Credential struct {
	ID        uint      `gorm:"primaryKey"`
	Service   string    `gorm:"uniqueIndex:idx_service_key;size:50"`
	Key       string    `gorm:"uniqueIndex:idx_service_key;size:50"`
	Value     string    `gorm:"type:text"` // encrypted
	UpdatedAt time.Time
}

func (Credential) TableName() string {
	return "credentials"
}

// Store provides encrypted credential storage
type Store struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

// Config holds configuration for the credential store
type Config struct {
	// DatabasePath is the path to the SQLite database file
	DatabasePath string

	// EncryptionKey is the base64-encoded 32-byte encryption key.
	// If empty, will try to load from environment or key file.
	EncryptionKey string

	// KeyFilePath is the path to the encryption key file.
	// If empty, defaults to ~/.goodreads-backup-key.
	KeyFilePath string
}

// New creates a new Store with the given configuration
func New(cfg Config) (*Store, error) {
	key, err := resolveEncryptionKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve encryption key: %w", err)
	}

	encryptor, err := crypto.NewEncryptorFromBase64(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, encryptor: encryptor}, nil
}

// resolveEncryptionKey determines the encryption key from various sources
func resolveEncryptionKey(cfg Config) (string, error) {
	// Priority 1: Explicitly provided key
	if cfg.EncryptionKey != "" {
		return cfg.EncryptionKey, nil
	}

	// Priority 2: Environment variable
	if envKey := os.Getenv(EnvEncryptionKey); envKey != "" {
		return envKey, nil
	}

	// Priority 3: Key file
	keyFilePath := cfg.KeyFilePath
	if keyFilePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		keyFilePath = filepath.Join(homeDir, DefaultKeyFileName)
	}

	if data, err := os.ReadFile(keyFilePath); err == nil {
		return string(data), nil
	}

	// Generate a fresh key and persist it for later runs
	newKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate encryption key: %w", err)
	}

	if err := os.WriteFile(keyFilePath, []byte(newKey), 0600); err != nil {
		return "", fmt.Errorf("failed to save encryption key to %s: %w", keyFilePath, err)
	}

	fmt.Printf("Generated new encryption key and saved to %s\n", keyFilePath)
	return newKey, nil
}

// Set stores a credential value, replacing any existing one for the
// same service and key.
func (s *Store) Set(service, key, value string) error {
	encrypted, err := s.encryptor.Encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	cred := &Credential{Service: service, Key: key, Value: encrypted}
	result := s.db.Where("service = ? AND key = ?", service, key).
		Assign(map[string]interface{}{
			"value":      encrypted,
			"updated_at": time.Now(),
		}).
		FirstOrCreate(cred)
	if result.Error != nil {
		return fmt.Errorf("failed to save credential: %w", result.Error)
	}

	return nil
}

// Get retrieves and decrypts a credential value. Returns the empty
// string when no value is stored.
func (s *Store) Get(service, key string) (string, error) {
	var cred Credential
	result := s.db.Where("service = ? AND key = ?", service, key).First(&cred)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get credential: %w", result.Error)
	}

	value, err := s.encryptor.Decrypt(cred.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return value, nil
}

// Delete removes a credential from storage
func (s *Store) Delete(service, key string) error {
	result := s.db.Where("service = ? AND key = ?", service, key).Delete(&Credential{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete credential: %w", result.Error)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
