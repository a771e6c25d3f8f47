package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Colors holds color values for every UI style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title        string `toml:"title"`
	Header       string `toml:"header"`
	SelectedBG   string `toml:"selected_bg"`
	SelectedFG   string `toml:"selected_fg"`
	Available    string `toml:"available"`
	Busy         string `toml:"busy"`
	Frontend     string `toml:"frontend"`
	Backend      string `toml:"backend"`
	Overdue      string `toml:"overdue"`
	Notification string `toml:"notification"`
	Help         string `toml:"help"`
	HelpActive   string `toml:"help_active"`
	Border       string `toml:"border"`
	Separator    string `toml:"separator"`
	TabActive    string `toml:"tab_active"`
	TabInactive  string `toml:"tab_inactive"`
	WizardTitle  string `toml:"wizard_title"`
	WizardActive string `toml:"wizard_active"`
	WizardDim    string `toml:"wizard_dim"`
	Error        string `toml:"error"`
	Logo         string `toml:"logo"`
}

// Layout holds pane sizing percentages.
type Layout struct {
	ListWidth int `toml:"list_width"`
}

// Export controls where and how the CSV export is written.
type Export struct {
	Dir        string `toml:"dir"`
	DateFormat string `toml:"date_format"`
}

// Log configures the zap logger. An empty File disables logging.
type Log struct {
	Env  string `toml:"env"`
	File string `toml:"file"`
}

// Data selects the roster loaded at startup.
type Data struct {
	Seed   string `toml:"seed"`
	Sample bool   `toml:"sample"`
}

// Config is the top-level configuration.
type Config struct {
	Colors Colors `toml:"colors"`
	Layout Layout `toml:"layout"`
	Export Export `toml:"export"`
	Log    Log    `toml:"log"`
	Data   Data   `toml:"data"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Colors: Colors{
			Title:        "#cba6f7", // Mauve
			Header:       "#89b4fa", // Blue
			SelectedBG:   "#313244", // Surface 0
			SelectedFG:   "#cdd6f4", // Text
			Available:    "#a6e3a1", // Green
			Busy:         "#f9e2af", // Yellow
			Frontend:     "#89b4fa", // Blue
			Backend:      "#cba6f7", // Mauve
			Overdue:      "#f38ba8", // Red
			Notification: "#a6adc8", // Subtext 0
			Help:         "#7f849c", // Overlay 1
			HelpActive:   "#bac2de", // Subtext 1
			Border:       "#585b70", // Surface 2
			Separator:    "#585b70", // Surface 2
			TabActive:    "#74c7ec", // Sapphire
			TabInactive:  "#7f849c", // Overlay 1
			WizardTitle:  "#cba6f7", // Mauve
			WizardActive: "#cba6f7", // Mauve
			WizardDim:    "#7f849c", // Overlay 1
			Error:        "#f38ba8", // Red
			Logo:         "#74c7ec", // Sapphire
		},
		Layout: Layout{
			ListWidth: 40,
		},
		Export: Export{
			Dir:        ".",
			DateFormat: "1/2/2006",
		},
		Log: Log{
			Env:  "development",
			File: defaultLogFile(),
		},
		Data: Data{
			Sample: true,
		},
	}
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "devtracker")
}

func defaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "devtracker", "devtracker.log")
}

// Path returns the config file path. DEVTRACKER_CONFIG wins over the
// XDG location.
func Path() string {
	if p := os.Getenv("DEVTRACKER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(configDir(), "devtracker.conf")
}

// Load reads .env (if present), then the config file at Path(), then
// environment overrides. Omitted fields keep their default values. A
// missing config file is not an error.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config path; an empty path means Path().
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Default(), fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Log.Env = getEnv("DEVTRACKER_LOG_ENV", cfg.Log.Env)
	cfg.Log.File = getEnv("DEVTRACKER_LOG_FILE", cfg.Log.File)
	cfg.Export.Dir = getEnv("DEVTRACKER_EXPORT_DIR", cfg.Export.Dir)
	cfg.Data.Seed = getEnv("DEVTRACKER_SEED", cfg.Data.Seed)
	cfg.Data.Sample = getEnvBool("DEVTRACKER_SAMPLE", cfg.Data.Sample)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

const defaultFileContent = `# devtracker configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).
# Defaults use the Catppuccin Mocha palette.

[colors]
# title         = "#cba6f7"  # Mauve
# header        = "#89b4fa"  # Blue
# selected_bg   = "#313244"  # Surface 0
# selected_fg   = "#cdd6f4"  # Text
# available     = "#a6e3a1"  # Green
# busy          = "#f9e2af"  # Yellow
# frontend      = "#89b4fa"  # Blue
# backend       = "#cba6f7"  # Mauve
# overdue       = "#f38ba8"  # Red
# notification  = "#a6adc8"  # Subtext 0
# help          = "#7f849c"  # Overlay 1
# help_active   = "#bac2de"  # Subtext 1
# border        = "#585b70"  # Surface 2
# separator     = "#585b70"  # Surface 2
# tab_active    = "#74c7ec"  # Sapphire
# tab_inactive  = "#7f849c"  # Overlay 1
# wizard_title  = "#cba6f7"  # Mauve
# wizard_active = "#cba6f7"  # Mauve
# wizard_dim    = "#7f849c"  # Overlay 1
# error         = "#f38ba8"  # Red
# logo          = "#74c7ec"  # Sapphire

[layout]
# list_width = 40   # percentage of terminal width for the developer list

[export]
# dir         = "."          # directory developer-tasks.csv is written to
# date_format = "1/2/2006"   # Go time layout for the Due Date column

[log]
# env  = "development"       # "production" switches to JSON output
# file = "~/.local/state/devtracker/devtracker.log"   # empty disables logging

[data]
# seed   = ""      # YAML roster loaded at startup
# sample = true    # load the demo roster when no seed is set
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}
