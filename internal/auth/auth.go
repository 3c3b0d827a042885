// Package auth resolves the optional bearer token sent to the todo service.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/tada/internal/config"
)

// EnvToken overrides every other source.
const EnvToken = "TADA_TOKEN"

const credFileName = "credentials.json"

// Source says where a token was found.
type Source string

const (
	SourceEnv    Source = "env"
	SourceFile   Source = "file"   // saved by `tada auth login`
	SourceConfig Source = "config" // token key of a config file
)

// Credentials is a resolved token.
type Credentials struct {
	Token   string    `json:"token"`
	Source  Source    `json:"-"`
	SavedAt time.Time `json:"saved_at,omitzero"`
}

func credFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Resolve looks in TADA_TOKEN, then the credentials file, then falls back to
// configured. It returns nil, nil when there is no token at all.
func Resolve(configured string) (*Credentials, error) {
	if tok := normalize(os.Getenv(EnvToken)); tok != "" {
		return &Credentials{Token: tok, Source: SourceEnv}, nil
	}

	saved, err := readFile()
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return saved, nil
	}

	if tok := normalize(configured); tok != "" {
		return &Credentials{Token: tok, Source: SourceConfig}, nil
	}
	return nil, nil
}

func readFile() (*Credentials, error) {
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", p, err)
	}
	if c.Token = normalize(c.Token); c.Token == "" {
		return nil, nil
	}
	c.Source = SourceFile
	return &c, nil
}

// Save writes the token to ~/.tada/credentials.json, readable by the owner only.
func Save(token string) error {
	token = normalize(token)
	if token == "" {
		return errors.New("empty token")
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(Credentials{Token: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return os.WriteFile(p, b, 0o600)
}

// Forget removes the credentials file. A missing file is not an error.
func Forget() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// normalize trims s and drops a leading "Bearer " so pasted headers work.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		s = strings.TrimSpace(s[7:])
	}
	return s
}
