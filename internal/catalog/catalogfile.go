package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// NamedItem is a category or platform entry from the catalog data file.
// Source files mix numeric and string identifiers, so ID normalizes both.
type NamedItem struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

func (n *NamedItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     json.RawMessage `json:"id"`
		Nombre string          `json:"nombre"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Nombre = raw.Nombre
	if len(raw.ID) == 0 {
		n.ID = ""
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw.ID, &asString); err == nil {
		n.ID = asString
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(raw.ID, &asNumber); err == nil {
		n.ID = strconv.FormatInt(int64(asNumber), 10)
		return nil
	}
	return fmt.Errorf("named item id: unsupported value %s", string(raw.ID))
}

// CatalogFile holds the static category and platform reference data.
type CatalogFile struct {
	Categorias  []NamedItem `json:"categorias"`
	Plataformas []NamedItem `json:"plataformas"`
}

// LoadCatalogFile reads the reference data file. A missing file yields an
// empty catalog rather than an error, matching a fresh deployment.
func LoadCatalogFile(path string) (*CatalogFile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &CatalogFile{Categorias: []NamedItem{}, Plataformas: []NamedItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var cf CatalogFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if cf.Categorias == nil {
		cf.Categorias = []NamedItem{}
	}
	if cf.Plataformas == nil {
		cf.Plataformas = []NamedItem{}
	}
	return &cf, nil
}

// MapNames resolves a list of IDs to display names, skipping unknown IDs.
func MapNames(ids []string, items []NamedItem) []string {
	byID := make(map[string]string, len(items))
	for _, item := range items {
		byID[item.ID] = item.Nombre
	}
	names := []string{}
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
