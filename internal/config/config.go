package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Rushan4218/restrowtl/internal/paths"
)

// DefaultFont is the TrueType font tried first. When it cannot be read the
// renderer falls back to a fixed bitmap face.
const DefaultFont = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"

// DefaultOutputDir is where assets are written when neither the config nor
// --out names a directory.
const DefaultOutputDir = "public/icons"

// DefaultMessage is the notification body sent after a successful run.
const DefaultMessage = "Generated {count} icons in {dir} ({duration})"

// MaxICOSize is the largest edge length an ICO directory entry can hold.
const MaxICOSize = 256

// Color is an opaque RGB colour written as "#rrggbb" in JSON.
type Color struct {
	R, G, B uint8
}

// NRGBA returns the colour with full alpha.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("color must be a \"#rrggbb\" string")
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Colors holds the gradient endpoints and the text colour.
type Colors struct {
	Start Color `json:"start"`
	End   Color `json:"end"`
	Text  Color `json:"text"`
}

// Text holds the strings drawn on the icons.
type Text struct {
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	Letter        string `json:"letter"`
	SubtitleAlpha int    `json:"subtitle_alpha"`
}

// Layout holds size ratios relative to the icon edge length.
type Layout struct {
	CornerRatio      float64 `json:"corner_ratio"`
	MinFaviconRadius int     `json:"min_favicon_radius"`
	TitleRatio       float64 `json:"title_ratio"`
	SubtitleRatio    float64 `json:"subtitle_ratio"`
	LetterRatio      float64 `json:"letter_ratio"`
	GapRatio         float64 `json:"gap_ratio"`
	SubtitleLift     float64 `json:"subtitle_lift"`
}

// Manifest configures the generated web app manifest.
type Manifest struct {
	Enabled         bool   `json:"enabled"`
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	ThemeColor      Color  `json:"theme_color"`
	BackgroundColor Color  `json:"background_color"`
	IconPrefix      string `json:"icon_prefix"`
}

// ICO configures the favicon.ico bundle.
type ICO struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
}

// History selects where generation runs are recorded:
// "sqlite" (default), "file" or "off".
type History struct {
	Backend string `json:"backend"`
}

// MQTT holds broker settings for the completion notification.
// Publishing is disabled when Broker is empty.
type MQTT struct {
	Broker   string `json:"broker,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Topic    string `json:"topic,omitempty"`
	QoS      byte   `json:"qos,omitempty"`
	Retain   bool   `json:"retain,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Webhook holds the completion webhook. Disabled when URL is empty.
type Webhook struct {
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Notify groups the optional completion notifications.
type Notify struct {
	Message         string  `json:"message"`
	CooldownSeconds int     `json:"cooldown_seconds,omitempty"` // min gap between notifications per output dir
	MQTT            MQTT    `json:"mqtt,omitempty"`
	Webhook         Webhook `json:"webhook,omitempty"`
}

// Config is the full generator configuration. Every field has a default,
// so an empty JSON object reproduces the stock icon set.
type Config struct {
	OutputDir     string   `json:"output_dir"`
	Font          string   `json:"font"`
	Sizes         []int    `json:"sizes"`
	MaskableSizes []int    `json:"maskable_sizes"`
	FaviconSizes  []int    `json:"favicon_sizes"`
	Colors        Colors   `json:"colors"`
	Text          Text     `json:"text"`
	Layout        Layout   `json:"layout"`
	Manifest      Manifest `json:"manifest"`
	ICO           ICO      `json:"ico"`
	History       History  `json:"history"`
	Notify        Notify   `json:"notify"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:     DefaultOutputDir,
		Font:          DefaultFont,
		Sizes:         []int{72, 96, 128, 144, 152, 180, 192, 384, 512},
		MaskableSizes: []int{192, 512},
		FaviconSizes:  []int{32, 16},
		Colors: Colors{
			Start: Color{249, 115, 22}, // orange-500
			End:   Color{234, 88, 12},  // orange-600
			Text:  Color{255, 255, 255},
		},
		Text: Text{
			Title:         "RH",
			Subtitle:      "RESTROHUB",
			Letter:        "R",
			SubtitleAlpha: 200,
		},
		Layout: Layout{
			CornerRatio:      0.18,
			MinFaviconRadius: 2,
			TitleRatio:       0.35,
			SubtitleRatio:    0.1,
			LetterRatio:      0.6,
			GapRatio:         0.02,
			SubtitleLift:     0.8,
		},
		Manifest: Manifest{
			Enabled:         true,
			Name:            "RestroHub - Restaurant Management System",
			ShortName:       "RestroHub",
			StartURL:        "/",
			Display:         "standalone",
			ThemeColor:      Color{249, 115, 22},
			BackgroundColor: Color{255, 255, 255},
			IconPrefix:      "/icons",
		},
		ICO:     ICO{Enabled: true, Size: 32},
		History: History{Backend: "sqlite"},
		Notify: Notify{
			Message: DefaultMessage,
			MQTT:    MQTT{ClientID: "pwaicons", Topic: "pwaicons/generated"},
		},
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Default()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Validate reports the first setting that would make generation fail or
// produce nonsense.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	for _, list := range []struct {
		name  string
		sizes []int
	}{
		{"sizes", c.Sizes},
		{"maskable_sizes", c.MaskableSizes},
		{"favicon_sizes", c.FaviconSizes},
	} {
		for _, s := range list.sizes {
			if s <= 0 {
				return fmt.Errorf("%s: size must be positive, got %d", list.name, s)
			}
		}
	}
	if c.Text.SubtitleAlpha < 0 || c.Text.SubtitleAlpha > 255 {
		return fmt.Errorf("text.subtitle_alpha must be between 0 and 255, got %d", c.Text.SubtitleAlpha)
	}
	for name, v := range map[string]float64{
		"corner_ratio":   c.Layout.CornerRatio,
		"title_ratio":    c.Layout.TitleRatio,
		"subtitle_ratio": c.Layout.SubtitleRatio,
		"letter_ratio":   c.Layout.LetterRatio,
		"gap_ratio":      c.Layout.GapRatio,
		"subtitle_lift":  c.Layout.SubtitleLift,
	} {
		if v < 0 {
			return fmt.Errorf("layout.%s must not be negative", name)
		}
	}
	switch c.History.Backend {
	case "sqlite", "file", "off":
	default:
		return fmt.Errorf("history.backend must be \"sqlite\", \"file\" or \"off\", got %q", c.History.Backend)
	}
	if c.ICO.Enabled && (c.ICO.Size <= 0 || c.ICO.Size > MaxICOSize) {
		return fmt.Errorf("ico.size must be between 1 and %d, got %d", MaxICOSize, c.ICO.Size)
	}
	if c.Notify.CooldownSeconds < 0 {
		return fmt.Errorf("notify.cooldown_seconds must not be negative")
	}
	if c.Notify.MQTT.Broker != "" && c.Notify.MQTT.QoS > 2 {
		return fmt.Errorf("notify.mqtt.qos must be 0, 1 or 2")
	}
	return nil
}

// Locate returns the config file to use. It tries, in order:
//  1. explicitPath (if non-empty; must exist)
//  2. pwaicons.json next to the running binary
//  3. ~/.config/pwaicons/pwaicons.json
//
// An empty path with a nil error means no file was found and the
// built-in defaults apply.
func Locate(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("reading config: %w", err)
		}
		return explicitPath, nil
	}

	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// Load locates and parses the config, returning the path it came from
// ("" for built-in defaults).
func Load(explicitPath string) (Config, string, error) {
	path, err := Locate(explicitPath)
	if err != nil {
		return Config{}, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := readConfig(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
