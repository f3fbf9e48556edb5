package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/mmcp/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of backups kept per agent.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the agent.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the stored copy no longer matches the
	// SHA256 hash recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup of an agent's config file.
// It is stored as manifest.json next to the copied file.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// Agent is the agent identifier the file belongs to.
	Agent string `json:"agent"`

	// OriginalPath is the absolute path the file was copied from.
	OriginalPath string `json:"original_path"`

	// FileName is the name of the copy within the backup directory.
	FileName string `json:"file_name"`

	// SHA256Hash is the hex-encoded SHA256 hash of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// MMCPVersion is the version of mmcp that created the backup.
	MMCPVersion string `json:"mmcp_version"`

	// ID is the backup identifier (timestamp format: 20260123T100712).
	// It is the directory name and is not stored in the manifest.
	ID string `json:"-"`
}
