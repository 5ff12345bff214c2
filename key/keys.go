// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Downloader - these keys control where episodes come from, where they go and how many are fetched at once.
const (
	DownloaderSite         = "downloader.site"
	DownloaderOutput       = "downloader.output"
	DownloaderWorkers      = "downloader.workers"
	DownloaderRetries      = "downloader.retries"
	DownloaderRetryBackoff = "downloader.retry_backoff"
	DownloaderExtension    = "downloader.extension"
)

// Network - these keys tune the shared HTTP client.
const (
	NetworkTimeout     = "network.timeout"
	NetworkFingerprint = "network.fingerprint"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern terminal output.
const (
	CliColored = "cli.colored"
)
