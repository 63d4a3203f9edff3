package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Zone is a market zone or price index that may appear as a price column.
type Zone struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"` // "index" or "bidding"
}

// ZoneCatalog is the list of known zones shown to users.
type ZoneCatalog struct {
	UpdatedAt string `json:"updated_at" yaml:"updated_at"` // ISO 8601 timestamp
	Zones     []Zone `json:"zones" yaml:"zones"`
}

// DefaultZones returns the Italian day-ahead zones and the national index.
func DefaultZones() *ZoneCatalog {
	return &ZoneCatalog{Zones: []Zone{
		{ID: "PUN", Name: "Prezzo Unico Nazionale", Kind: "index"},
		{ID: "NORD", Name: "Nord", Kind: "bidding"},
		{ID: "CNOR", Name: "Centro Nord", Kind: "bidding"},
		{ID: "CSUD", Name: "Centro Sud", Kind: "bidding"},
		{ID: "SUD", Name: "Sud", Kind: "bidding"},
		{ID: "CALA", Name: "Calabria", Kind: "bidding"},
		{ID: "SICI", Name: "Sicilia", Kind: "bidding"},
		{ID: "SARD", Name: "Sardegna", Kind: "bidding"},
	}}
}

// IDs lists zone ids in catalog order.
func (c *ZoneCatalog) IDs() []string {
	out := make([]string, 0, len(c.Zones))
	for _, z := range c.Zones {
		out = append(out, z.ID)
	}
	return out
}

// Lookup finds a zone by id, ignoring case.
func (c *ZoneCatalog) Lookup(id string) (Zone, bool) {
	for _, z := range c.Zones {
		if strings.EqualFold(z.ID, id) {
			return z, true
		}
	}
	return Zone{}, false
}

// DisplayName is the zone's name, or id itself for zones not in the catalog.
func (c *ZoneCatalog) DisplayName(id string) string {
	if z, ok := c.Lookup(id); ok && z.Name != "" {
		return z.Name
	}
	return id
}

// Merge adds the ids not yet in the catalog and returns how many were added.
// Existing entries keep their metadata.
func (c *ZoneCatalog) Merge(ids []string) int {
	added := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := c.Lookup(id); ok {
			continue
		}
		c.Zones = append(c.Zones, Zone{ID: id, Name: id, Kind: "bidding"})
		added++
	}
	if added > 0 {
		c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return added
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadZones loads a catalog from a JSON or YAML file
func LoadZones(filePath string) (*ZoneCatalog, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	var c ZoneCatalog
	if isYAML(filePath) {
		err = yaml.Unmarshal(raw, &c)
	} else {
		err = json.Unmarshal(raw, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse zones file: %w", err)
	}

	return &c, nil
}

// LoadZonesOrDefault loads filePath, falling back to DefaultZones when the file
// does not exist.
func LoadZonesOrDefault(filePath string) (*ZoneCatalog, error) {
	c, err := LoadZones(filePath)
	if err == nil {
		return c, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultZones(), nil
	}
	return nil, err
}

// SaveZones saves a catalog to a JSON or YAML file
func SaveZones(c *ZoneCatalog, filePath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		raw []byte
		err error
	)
	if isYAML(filePath) {
		raw, err = yaml.Marshal(c)
	} else {
		raw, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal zones: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write zones file: %w", err)
	}

	return nil
}

// DefaultZonesPath returns the default path for the zones file
func DefaultZonesPath() string {
	// Try environment variable first
	if path := os.Getenv("ZONES_FILE"); path != "" {
		return path
	}
	return "./data/zones.json"
}
