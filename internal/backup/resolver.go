package backup

import (
	"fmt"

	"github.com/mrlokans/goodreads-backup/internal/credstore"
	"github.com/mrlokans/goodreads-backup/internal/goodreads"
)

// CredentialSource supplies credentials from one origin (flags, config
// file, credential store). A source may answer partially; empty fields
// mean it has no value for them.
type CredentialSource interface {
	Name() string
	Lookup() (goodreads.Credentials, error)
}

// StaticSource serves fixed credential values, e.g. parsed flags or a
// loaded config file.
type StaticSource struct {
	SourceName string
	Creds      goodreads.Credentials
}

func (s StaticSource) Name() string { return s.SourceName }

func (s StaticSource) Lookup() (goodreads.Credentials, error) {
	return s.Creds, nil
}

// StoreSource reads credentials from the encrypted credential store.
type StoreSource struct {
	Store *credstore.Store
}

func (s StoreSource) Name() string { return "credential store" }

func (s StoreSource) Lookup() (goodreads.Credentials, error) {
	userID, err := s.Store.Get(credstore.ServiceGoodreads, credstore.KeyUserID)
	if err != nil {
		return goodreads.Credentials{}, err
	}
	apiKey, err := s.Store.Get(credstore.ServiceGoodreads, credstore.KeyAPIKey)
	if err != nil {
		return goodreads.Credentials{}, err
	}
	return goodreads.Credentials{UserID: userID, APIKey: apiKey}, nil
}

// Resolve tries each source in order and fills in whichever fields are
// still missing, so earlier sources take precedence. Sources past the
// point where both fields are known are never consulted. Returns a
// ConfigError when no source could supply a required field.
func Resolve(sources ...CredentialSource) (goodreads.Credentials, error) {
	var creds goodreads.Credentials

	for _, source := range sources {
		if creds.UserID != "" && creds.APIKey != "" {
			break
		}

		found, err := source.Lookup()
		if err != nil {
			return goodreads.Credentials{}, fmt.Errorf("%s lookup failed: %w", source.Name(), err)
		}

		if creds.UserID == "" {
			creds.UserID = found.UserID
		}
		if creds.APIKey == "" {
			creds.APIKey = found.APIKey
		}
	}

	var missing []string
	if creds.UserID == "" {
		missing = append(missing, "user ID")
	}
	if creds.APIKey == "" {
		missing = append(missing, "API key")
	}
	if len(missing) > 0 {
		return goodreads.Credentials{}, &ConfigError{Missing: missing}
	}

	return creds, nil
}
