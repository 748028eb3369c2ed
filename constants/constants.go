// Package constants defines application constants
package constants

// Sort order constants
const (
	SortRelevance = "relevance"
	SortRandom    = "random"
	SortDateAdded = "date_added"
	SortViews     = "views"
	SortFavorites = "favorites"
	SortToplist   = "toplist"
	SortHot       = "hot"
)

// Valid sort orders
var ValidSorts = []string{
	SortRelevance, SortRandom, SortDateAdded,
	SortViews, SortFavorites, SortToplist, SortHot,
}

// Ratio keywords accepted by the search API in addition to WxH pairs
var RatioKeywords = []string{"landscape", "portrait"}

// Log levels
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Default values
const (
	DefaultSort        = SortRandom
	DefaultInterval    = 900 // seconds
	DefaultHistorySize = 30
	DefaultMaxFiles    = 0 // unlimited
	DefaultDownloadDir = "~/.local/share/random-wallpapers"
	DefaultConfigPath  = "~/.config/wallhaven-wallpaper/config.yaml"
	DefaultLogLevel    = "info"
	DefaultPage        = 1
	CatalogDisabled    = "off"
)

// Application constants
const (
	AppName      = "wallhaven_wallpaper"
	AppVersion   = "1.0.0"
	UserAgent    = "wallhaven_wallpaper/1.0"
	APIKeyEnv    = "WALLHAVEN_API_KEY"
	APIKeyHeader = "X-API-Key"
	BaseURL      = "https://wallhaven.cc/api/v1"
	StateFile    = "state.json"
	EnvFile      = ".env"
	CatalogFile  = "catalog.db"
)

// Downloaded file naming
const (
	FilePrefix       = "wall_"
	FileGlob         = FilePrefix + "*"
	TimestampLayout  = "20060102_150405"
	DefaultExtension = ".jpg"
)

// HTTP constants
const (
	RequestTimeout      = 30 // seconds
	DownloadTimeout     = 60 // seconds
	DownloadChunkSize   = 8192
	MaxIdleConns        = 10
	MaxIdleConnsPerHost = 2
	IdleConnTimeout     = 30 // seconds
)

// File permission constants
const (
	DirPermissions  = 0o755
	FilePermissions = 0o644
)
