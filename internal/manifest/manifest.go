// Package manifest builds the Web App Manifest that references the
// generated icons.
package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/icon"
	"github.com/Rushan4218/restrowtl/internal/paths"
)

// Icon is one entry of the manifest "icons" array.
type Icon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
}

// Manifest is the subset of the Web App Manifest the generator writes.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	ThemeColor      string `json:"theme_color"`
	BackgroundColor string `json:"background_color"`
	Icons           []Icon `json:"icons"`
}

// Build returns the manifest for assets. Favicons are not listed.
func Build(cfg config.Manifest, assets []icon.Asset) Manifest {
	m := Manifest{
		Name:            cfg.Name,
		ShortName:       cfg.ShortName,
		Description:     cfg.Description,
		StartURL:        cfg.StartURL,
		Display:         cfg.Display,
		ThemeColor:      cfg.ThemeColor.Hex(),
		BackgroundColor: cfg.BackgroundColor.Hex(),
		Icons:           []Icon{},
	}
	prefix := strings.TrimSuffix(cfg.IconPrefix, "/")
	for _, a := range assets {
		purpose := "any"
		switch a.Kind {
		case icon.Favicon:
			continue
		case icon.Maskable:
			purpose = "maskable"
		}
		m.Icons = append(m.Icons, Icon{
			Src:     prefix + "/" + a.FileName(),
			Sizes:   fmt.Sprintf("%dx%d", a.Size, a.Size),
			Type:    "image/png",
			Purpose: purpose,
		})
	}
	return m
}

// Marshal encodes m as indented JSON with a trailing newline.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write builds the manifest and writes it atomically to
// dir/manifest.json. It returns the path and the encoded bytes.
func Write(dir string, cfg config.Manifest, assets []icon.Asset) (string, []byte, error) {
	data, err := Build(cfg, assets).Marshal()
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, paths.ManifestName)
	if err := paths.AtomicWrite(path, data); err != nil {
		return "", nil, fmt.Errorf("manifest: %w", err)
	}
	return path, data, nil
}
