package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/routepath"
	"github.com/vango-dev/storefront/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "storefront.json"

	// YAMLConfigFileName is read when storefront.json is absent.
	YAMLConfigFileName = "storefront.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMountID is the id of the element the application mounts into.
	DefaultMountID = "app"

	// DefaultTitle is the document title.
	DefaultTitle = "Storefront"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultExportDir is the default static export directory.
	DefaultExportDir = "dist"
)

// Environment variables that override the file.
const (
	EnvBaseURL = "BASE_URL"
	EnvPort    = "STOREFRONT_PORT"
	EnvHistory = "STOREFRONT_HISTORY"
)

// Config represents the complete storefront.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// BaseURL is the path prefix the application is served under.
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`

	// History is the history mode: "web" or "hash".
	History string `json:"history,omitempty" yaml:"history,omitempty"`

	// MountID is the id of the mount point element.
	MountID string `json:"mountID,omitempty" yaml:"mountID,omitempty"`

	// Title is the document title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Export contains static export settings.
	Export ExportConfig `json:"export,omitempty" yaml:"export,omitempty"`

	configPath string
}

// MetricsConfig contains Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Dir is the local output directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// ProductIDs are prerendered for the product detail route.
	ProductIDs []string `json:"productIDs,omitempty" yaml:"productIDs,omitempty"`

	// S3 uploads the export to a bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config contains S3 export target settings.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name:    "storefront",
		Host:    DefaultHost,
		Port:    DefaultPort,
		BaseURL: "/",
		History: string(router.ModeWeb),
		MountID: DefaultMountID,
		Title:   DefaultTitle,
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Export: ExportConfig{
			Dir: DefaultExportDir,
		},
	}
}

// Load reads configuration from dir. A missing storefront.json is not an
// error; defaults are used. Environment overrides are applied either way.
func Load(dir string) (*Config, error) {
	cfg := New()
	if path := Find(dir); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads configuration from the specified file path, JSON or YAML
// by extension. Environment overrides are not applied.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E202").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	name := filepath.Base(path)
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E202").
				WithDetail("Failed to parse " + name + ": " + err.Error()).
				WithSuggestion("Check that " + name + " is valid YAML")
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E202").
			WithDetail("Failed to parse " + name + ": " + err.Error()).
			WithSuggestion("Check that " + name + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Load(wd)
}

// ApplyEnv applies environment overrides using lookup, usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvHistory); ok && v != "" {
		c.History = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E201").
				WithDetailf("%s=%q is not a port number", EnvPort, v)
		}
		c.Port = port
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, JSON or YAML by
// extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E202").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E202").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if c.History == "" {
		c.History = string(router.ModeWeb)
	}
	if c.MountID == "" {
		c.MountID = DefaultMountID
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("E201").
			WithDetail("Port must be between 0 and 65535")
	}
	if _, err := router.ParseMode(c.History); err != nil {
		return errors.New("E201").
			WithDetail(err.Error()).
			WithSuggestion("Set history to \"web\" or \"hash\"")
	}
	if !strings.HasPrefix(c.BaseURL, "/") && routepath.NormalizeBase(c.BaseURL) != "/" {
		return errors.New("E201").
			WithDetailf("baseURL %q must start with \"/\"", c.BaseURL).
			WithSuggestion("Use an absolute path such as \"/\" or \"/shop/\"")
	}
	if c.MountID == "" || strings.ContainsAny(c.MountID, " #\t\n") {
		return errors.New("E201").
			WithDetailf("mountID %q is not a valid element id", c.MountID)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E201").
			WithDetailf("metrics.path %q must start with \"/\"", c.Metrics.Path)
	}
	return nil
}

// HistoryMode returns the parsed history mode. Call Validate first.
func (c *Config) HistoryMode() router.Mode {
	mode, err := router.ParseMode(c.History)
	if err != nil {
		return router.ModeWeb
	}
	return mode
}

// NewHistory returns the router history described by the config.
func (c *Config) NewHistory() router.History {
	return router.NewHistory(c.HistoryMode(), c.BaseURL)
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// URL returns the application URL, including the base path.
func (c *Config) URL() string {
	return "http://" + c.Address() + c.NewHistory().Base()
}

// MountSelector returns the mount selector, e.g. "#app".
func (c *Config) MountSelector() string {
	return "#" + c.MountID
}

// ExportToS3 reports whether the export targets an S3 bucket.
func (c *Config) ExportToS3() bool {
	return c.Export.S3.Bucket != ""
}

// Find returns the config file in dir, preferring storefront.json, or ""
// when there is none.
func Find(dir string) string {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "storefront.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	return Find(dir) != ""
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
