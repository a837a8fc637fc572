package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local" // Files on disk, served under /media (default)
	StorageBackendS3    StorageBackend = "s3"    // S3 or any S3-compatible endpoint
)

type (
	Config struct {
		HTTP
		Global
		Log
		Database
		Storage
		Media
		Import
		Audit
		Maintenance
		Tasks
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		ReadOnly                 bool // Reject every write request with 403
		HSTSMaxAge               int  // Seconds; 0 disables the header
	}
	Log struct {
		Level       string // debug, info, warn, error
		Development bool   // Console encoder instead of JSON
	}
	Database struct {
		Driver   string // sqlite or postgres
		Path     string // sqlite file path
		DSN      string // postgres connection string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	Storage struct {
		Backend StorageBackend
		Prefix  string // Key prefix for every stored media object, e.g. "projects/"

		LocalDir     string
		LocalBaseURL string // Public base for locally stored objects, e.g. "/media"

		S3Bucket        string
		S3Region        string
		S3Endpoint      string // Optional, for MinIO/LocalStack
		S3AccessKey     string
		S3SecretKey     string
		S3UsePathStyle  bool
		S3PublicBaseURL string // CDN or bucket domain; derived when empty
	}
	Media struct {
		Extensions          []string
		FetchTimeout        time.Duration
		UserAgent           string
		MaxArchiveEntrySize int64
		MaxRemoteSize       int64
		PassthroughPrefixes []string
	}
	Import struct {
		MaxUploadBytes int64
		StagingDir     string // Where async imports keep uploaded files until processed
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Maintenance struct {
		Enabled          bool
		Schedule         string // Cron format: "30 3 * * *" = daily at 03:30
		JobRetentionDays int    // Days to keep finished import jobs
	}
	Tasks struct {
		Enabled         bool
		DBPath          string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		AdminToken     string // Plain bearer token for admin endpoints
		AdminTokenHash string // bcrypt hash of the bearer token, preferred over AdminToken
	}
)

// splitList reads a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mediaExtensions normalizes the configured extension list so every entry is
// lowercase and dot-prefixed.
func mediaExtensions(v *viper.Viper) []string {
	raw := splitList(v.GetString("MEDIA_EXTENSIONS"))
	if len(raw) == 0 {
		return append([]string(nil), DefaultMediaExtensions...)
	}
	exts := make([]string, 0, len(raw))
	for _, ext := range raw {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("read_only", false)
	v.SetDefault("hsts_max_age", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	// Storage defaults
	v.SetDefault("storage_backend", string(StorageBackendLocal))
	v.SetDefault("storage_prefix", DefaultStoragePrefix)
	v.SetDefault("storage_local_dir", "./media")
	v.SetDefault("storage_local_base_url", "/media")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_use_path_style", false)
	v.SetDefault("s3_public_base_url", "")

	// Media resolution defaults
	v.SetDefault("media_extensions", "")
	v.SetDefault("media_fetch_timeout", "20s")
	v.SetDefault("media_user_agent", DefaultUserAgent)
	v.SetDefault("media_max_archive_entry_bytes", DefaultMaxArchiveEntryBytes)
	v.SetDefault("media_max_remote_bytes", DefaultMaxRemoteBytes)
	v.SetDefault("media_passthrough_prefixes", "")

	v.SetDefault("import_max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("import_staging_dir", "./staging")

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "30 3 * * *")
	v.SetDefault("maintenance_job_retention_days", 14)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("auth_admin_token", "")
	v.SetDefault("auth_admin_token_hash", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			ReadOnly:                 v.GetBool("READ_ONLY"),
			HSTSMaxAge:               v.GetInt("HSTS_MAX_AGE"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Database: Database{
			Driver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Storage: Storage{
			Backend:         StorageBackend(strings.ToLower(v.GetString("STORAGE_BACKEND"))),
			Prefix:          v.GetString("STORAGE_PREFIX"),
			LocalDir:        v.GetString("STORAGE_LOCAL_DIR"),
			LocalBaseURL:    v.GetString("STORAGE_LOCAL_BASE_URL"),
			S3Bucket:        v.GetString("S3_BUCKET"),
			S3Region:        v.GetString("S3_REGION"),
			S3Endpoint:      v.GetString("S3_ENDPOINT"),
			S3AccessKey:     v.GetString("S3_ACCESS_KEY"),
			S3SecretKey:     v.GetString("S3_SECRET_KEY"),
			S3UsePathStyle:  v.GetBool("S3_USE_PATH_STYLE"),
			S3PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},
		Media: Media{
			Extensions:          mediaExtensions(v),
			FetchTimeout:        v.GetDuration("MEDIA_FETCH_TIMEOUT"),
			UserAgent:           v.GetString("MEDIA_USER_AGENT"),
			MaxArchiveEntrySize: v.GetInt64("MEDIA_MAX_ARCHIVE_ENTRY_BYTES"),
			MaxRemoteSize:       v.GetInt64("MEDIA_MAX_REMOTE_BYTES"),
			PassthroughPrefixes: splitList(v.GetString("MEDIA_PASSTHROUGH_PREFIXES")),
		},
		Import: Import{
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
			StagingDir:     v.GetString("IMPORT_STAGING_DIR"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Maintenance: Maintenance{
			Enabled:          v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:         v.GetString("MAINTENANCE_SCHEDULE"),
			JobRetentionDays: v.GetInt("MAINTENANCE_JOB_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DBPath:          v.GetString("TASKS_DB_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			AdminToken:     v.GetString("AUTH_ADMIN_TOKEN"),
			AdminTokenHash: v.GetString("AUTH_ADMIN_TOKEN_HASH"),
		},
	}
}
