package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultServer   = "http://localhost:8000"
	profileDir      = ".config/relayctl"
	profileFileName = "profile.toml"
	profileVersion  = 1
)

// profile is the persisted operator identity.
type profile struct {
	Version  int    `toml:"version"`
	Server   string `toml:"server"`
	ClientID string `toml:"client_id"`
}

func (p *profile) applyDefaults() {
	if p.Version == 0 {
		p.Version = profileVersion
	}
	if strings.TrimSpace(p.Server) == "" {
		p.Server = defaultServer
	}
}

func defaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, profileDir, profileFileName), nil
}

// loadProfile reads path. A missing file yields the defaults.
func loadProfile(path string) (profile, error) {
	var p profile
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.applyDefaults()
			return p, nil
		}
		return p, fmt.Errorf("read profile: %w", err)
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode profile: %w", err)
	}
	if p.Version > profileVersion {
		return p, fmt.Errorf("profile version %d is newer than supported %d", p.Version, profileVersion)
	}
	p.applyDefaults()
	return p, nil
}

func saveProfile(path string, p profile) error {
	p.applyDefaults()
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}

func newClientID() string {
	return "relayctl-" + uuid.NewString()
}
