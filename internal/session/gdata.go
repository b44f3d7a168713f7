package session

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const flagsObject = "session"

// flagRecord is the stored form of one flag. A flag written under another token
// belongs to an earlier session and reads as absent.
type flagRecord struct {
	Token string `yaml:"token"`
	Value string `yaml:"value"`
}

// Gdata persists flags with github.com/quasilyte/gdata. The manager may be nil, in
// which case every call fails with ErrUnavailable.
type Gdata struct {
	manager *gdata.Manager
	token   string
}

// NewGdata binds a store to a session token. Starting with a new token clears all
// flags of earlier sessions.
func NewGdata(manager *gdata.Manager, token string) *Gdata {
	return &Gdata{manager: manager, token: token}
}

// OpenGdata opens the platform data directory for app.
func OpenGdata(app, token string) (*Gdata, error) {
	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}
	return NewGdata(m, token), nil
}

// Get implements Store.
func (g *Gdata) Get(key string) (string, bool, error) {
	if g.manager == nil {
		return "", false, ErrUnavailable
	}
	if !g.manager.ObjectPropExists(flagsObject, key) {
		return "", false, nil
	}
	data, err := g.manager.LoadObjectProp(flagsObject, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to load flag %q: %w", key, err)
	}
	var rec flagRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal flag %q: %w", key, err)
	}
	if rec.Token != g.token {
		return "", false, nil
	}
	return rec.Value, true, nil
}

// Set implements Store.
func (g *Gdata) Set(key, value string) error {
	if g.manager == nil {
		return ErrUnavailable
	}
	data, err := yaml.Marshal(flagRecord{Token: g.token, Value: value})
	if err != nil {
		return fmt.Errorf("failed to marshal flag %q: %w", key, err)
	}
	if err := g.manager.SaveObjectProp(flagsObject, key, data); err != nil {
		return fmt.Errorf("failed to save flag %q: %w", key, err)
	}
	return nil
}
