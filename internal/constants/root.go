package constants

import "time"

const (
	AppName            = "dosely"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/dosely/dosely.db"
	Version            = "v0.2.0"

	// DateFormat is the date-key format used for daily checks and preferences (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// ReferenceTimezone is the zone every date key and reminder time is computed in,
	// independent of the host locale.
	ReferenceTimezone = "Asia/Jerusalem"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dosely-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "dosely-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.dosely"
	TrayExecutablePrefix   = "dosely-tray"
)
