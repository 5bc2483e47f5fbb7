package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.json"

// Well-known top-level keys.
const (
	KeyModel                  = "model"
	KeyProvider               = "provider"
	KeyApprovalMode           = "approvalMode"
	KeyNotify                 = "notify"
	KeyDisableResponseStorage = "disableResponseStorage"
	KeyProviders              = "providers"
)

// Provider descriptor keys under providers.<name>.
const (
	KeyProviderName    = "name"
	KeyProviderBaseURL = "baseURL"
	KeyProviderEnvKey  = "envKey"
)

// Config is an open-ended Codex configuration object.
type Config map[string]any

// String returns the string value stored at key, or "" if it is absent or not a string.
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Providers returns the providers mapping, or nil if it is absent or malformed.
func (c Config) Providers() map[string]any {
	p, _ := c[KeyProviders].(map[string]any)
	return p
}

// ProviderField returns providers.<name>.<field> as a string.
func (c Config) ProviderField(name, field string) string {
	desc, _ := c.Providers()[name].(map[string]any)
	s, _ := desc[field].(string)
	return s
}

// Merge returns a new Config holding every key of existing with every key of
// defaults written over it. Values are replaced, not merged, so a nested
// object under a colliding key comes entirely from defaults. Neither input is
// modified.
func Merge(existing, defaults Config) Config {
	out := make(Config, len(existing)+len(defaults))
	maps.Copy(out, existing)
	maps.Copy(out, defaults)
	return out
}

// DroppedProviders lists the provider names present in existing that Merge
// discards because defaults replaces the providers object. The result is sorted.
func DroppedProviders(existing, defaults Config) []string {
	if _, ok := defaults[KeyProviders]; !ok {
		return nil
	}
	kept := defaults.Providers()
	var dropped []string
	for name := range existing.Providers() {
		if _, ok := kept[name]; !ok {
			dropped = append(dropped, name)
		}
	}
	slices.Sort(dropped)
	return dropped
}

// Render encodes cfg the way Save writes it: 2-space indent, sorted keys, no
// HTML escaping and no trailing newline.
func Render(cfg Config) ([]byte, error) {
	if cfg == nil {
		cfg = Config{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Store reads and writes config.json inside a single directory.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *log.Logger
}

// NewStore returns a Store rooted at dir. A nil logger discards log output.
func NewStore(fsys afero.Fs, dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{fs: fsys, dir: dir, logger: logger}
}

// Dir returns the configuration directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the full path to the configuration file.
func (s *Store) Path() string { return filepath.Join(s.dir, FileName) }

// EnsureDir creates the configuration directory and any missing parents.
// An existing directory is not an error.
func (s *Store) EnsureDir() error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

// LoadResult describes what Load found on disk.
type LoadResult struct {
	Config Config
	// Exists reports whether a config file was present.
	Exists bool
	// Recovered reports whether the file was present but could not be parsed,
	// in which case Config is empty.
	Recovered bool
}

// Load reads the configuration file. A missing file yields an empty Config.
// A file that is not a JSON object is logged as a warning and also yields an
// empty Config; only filesystem errors are returned.
func (s *Store) Load() (LoadResult, error) {
	path := s.Path()
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no existing config", "path", path)
			return LoadResult{Config: Config{}}, nil
		}
		return LoadResult{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		s.logger.Warn("could not parse existing config, starting fresh", "path", path, "err", err)
		return LoadResult{Config: Config{}, Exists: true, Recovered: true}, nil
	}
	s.logger.Debug("loaded existing config", "path", path, "keys", len(cfg))
	return LoadResult{Config: cfg, Exists: true}, nil
}

// Parse decodes data as a JSON object. Numbers are kept as json.Number so they
// are written back unchanged. JSON null yields an empty Config.
func Parse(data []byte) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parsing config file: unexpected data after top-level object")
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

// Save writes cfg to the configuration file, replacing its contents.
func (s *Store) Save(cfg Config) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ApplyResult is the outcome of Apply.
type ApplyResult struct {
	Path   string
	Config Config
	// Existing reports whether a config file was already present.
	Existing bool
	// Recovered reports whether the existing file was unparseable and ignored.
	Recovered bool
	// DroppedProviders names providers removed by replacing the providers object.
	DroppedProviders []string
}

// Apply merges defaults into the on-disk configuration and writes the result.
func (s *Store) Apply(defaults Config) (ApplyResult, error) {
	res, err := s.plan(defaults)
	if err != nil {
		return ApplyResult{}, err
	}
	if err := s.Save(res.Config); err != nil {
		return ApplyResult{}, err
	}
	s.logger.Debug("config written", "path", res.Path)
	return res, nil
}

// Preview computes what Apply would write without touching the filesystem.
func (s *Store) Preview(defaults Config) (ApplyResult, error) {
	return s.load(defaults)
}

func (s *Store) plan(defaults Config) (ApplyResult, error) {
	if err := s.EnsureDir(); err != nil {
		return ApplyResult{}, err
	}
	return s.load(defaults)
}

func (s *Store) load(defaults Config) (ApplyResult, error) {
	loaded, err := s.Load()
	if err != nil {
		return ApplyResult{}, err
	}
	dropped := DroppedProviders(loaded.Config, defaults)
	if len(dropped) > 0 {
		s.logger.Warn("replacing providers drops existing entries", "providers", dropped)
	}
	return ApplyResult{
		Path:             s.Path(),
		Config:           Merge(loaded.Config, defaults),
		Existing:         loaded.Exists,
		Recovered:        loaded.Recovered,
		DroppedProviders: dropped,
	}, nil
}
