package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./portfolio.db"

	// DefaultTasksDatabasePath keeps the task queue separate from the main
	// database so it works with either driver.
	DefaultTasksDatabasePath = "./portfolio-tasks.db"
)

const (
	DefaultStoragePrefix = "projects/"
	DefaultUserAgent     = "PortfolioImporter/1.0"

	DefaultMaxArchiveEntryBytes int64 = 25 << 20
	DefaultMaxRemoteBytes       int64 = 25 << 20
	DefaultMaxUploadBytes       int64 = 200 << 20
)

// DefaultMediaExtensions is the set of raster image extensions accepted both
// when indexing an archive and when classifying a downloaded file.
var DefaultMediaExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp", ".svg"}
