package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen based on the characteristics of the source site
// and the behaviour of the original scraper where applicable.
const (
	// DefaultBaseURL is the root of the source site. Individual sutta pages
	// live at <base>/sutta/<id>.
	DefaultBaseURL = "https://tripitaka.online"

	// DefaultBatchSize is the number of sutta records written per batch file.
	// 100 keeps individual files small enough to inspect by hand while
	// limiting the amount of work lost when a run is interrupted mid-batch.
	DefaultBatchSize = 100

	// DefaultDelay is the politeness delay between consecutive page fetches.
	// The source is a small community-run site; one request per second is
	// conservative and respectful of its resources.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout is the per-request connection timeout. The site is
	// occasionally slow to render sutta pages, so 30 seconds is generous
	// without letting a dead connection stall a run for long.
	DefaultTimeout = 30 * time.Second

	// DefaultRetries is the number of additional attempts made for a page
	// after a transient failure before the ID is skipped and recorded.
	DefaultRetries = 3

	// DefaultUserAgent identifies tipitakafetch in HTTP requests.
	// A descriptive User-Agent lets the site operator identify this
	// traffic in their logs.
	DefaultUserAgent = "tipitakafetch/1.0 (+https://github.com/tipitaka-tools/tipitakafetch)"

	// DefaultMaxBodySize limits the response body size read per page.
	// Sutta pages are text-heavy but well under 1MB; 5MB leaves headroom
	// while preventing memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "tipitakafetch"
)

// Config holds all configuration options for tipitakafetch.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: a single flat struct instead of nested sub-structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit.
type Config struct {
	// BaseURL is the root URL of the source site.
	BaseURL string

	// OutputDir is the root directory for batch files. Each selected
	// Nikaya gets a subdirectory named after its key.
	OutputDir string

	// DBDir is the directory holding the SQLite fetch database.
	// When empty the XDG data directory is used.
	DBDir string

	// BatchSize is the number of sutta records per batch file.
	BatchSize int

	// Delay is the politeness delay between consecutive requests.
	Delay time.Duration

	// Timeout is the connection timeout for each HTTP request.
	Timeout time.Duration

	// Retries is the number of retry attempts for transient failures.
	Retries int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Nikayas is the list of Nikaya keys selected for this run.
	// Ignored when All is true.
	Nikayas []string

	// All selects every known Nikaya, in canonical order.
	All bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .tipitakafetch in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// Overrides holds values loaded from the config file.
	Overrides *File

	// JSONSummary enables JSON summary output instead of the
	// human-readable format. Mutually exclusive with MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary enables Markdown summary output instead of the
	// human-readable format. Mutually exclusive with JSONSummary.
	MarkdownSummary bool

	// SummaryFile is the output file path for the run summary.
	// When set, the summary is written there instead of stdout.
	SummaryFile string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most runs.
// Callers override specific values after creation.
//
// Design decision: a constructor function instead of relying on zero
// values because most defaults are non-zero. It also documents what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		BatchSize:   DefaultBatchSize,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for tipitakafetch.
// On Linux: ~/.local/share/tipitakafetch
// On macOS: ~/Library/Application Support/tipitakafetch
// On Windows: %LOCALAPPDATA%\tipitakafetch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tipitakafetch.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for tipitakafetch.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultOutputDir returns the default root directory for batch files.
func DefaultOutputDir() string {
	return filepath.Join(XDGDataDir(), "texts")
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
//
// Design decision: validation happens once at the config level after CLI
// parsing rather than at each point of use, to fail fast with a clear
// message. The first error found is returned; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if !c.All && len(c.Nikayas) == 0 {
		return ErrNoNikaya
	}

	for _, key := range c.Nikayas {
		if _, ok := LookupNikaya(key); !ok {
			return ErrUnknownNikaya
		}
	}

	// Batch size must be positive; zero would mean batches never flush
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Delay must be non-negative; use 0 for no delay
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Retries < 0 {
		return ErrInvalidRetries
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}

	return nil
}

// SelectedNikayas resolves the configured selection into Nikaya values,
// applying any range overrides from the config file. With All set, every
// registered Nikaya is returned in canonical order.
func (c *Config) SelectedNikayas() ([]Nikaya, error) {
	var selected []Nikaya
	if c.All {
		selected = Nikayas()
	} else {
		for _, key := range c.Nikayas {
			n, ok := LookupNikaya(key)
			if !ok {
				return nil, ErrUnknownNikaya
			}
			selected = append(selected, n)
		}
	}

	if c.Overrides != nil {
		for i, n := range selected {
			selected[i] = c.Overrides.ApplyOverride(n)
		}
	}

	for _, n := range selected {
		if err := n.Validate(); err != nil {
			return nil, err
		}
	}

	return selected, nil
}
