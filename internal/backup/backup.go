package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/paths"
	"github.com/thoreinstein/mmcp/pkg/fileutil"
)

const (
	manifestFile = "manifest.json"
	idLayout     = "20060102T150405"
)

// Dir returns the root backup directory, <settings dir>/backups.
func Dir(r paths.Resolver) string {
	return filepath.Join(paths.SettingsDir(r), "backups")
}

// Manager creates, lists and restores backups of agent config files.
type Manager struct {
	fs             afero.Fs
	rootDir        string
	retentionCount int
	version        string
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per agent.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithVersion sets the version recorded in new manifests.
func WithVersion(v string) Option {
	return func(m *Manager) {
		m.version = v
	}
}

// NewManager creates a Manager storing backups under [Dir].
func NewManager(fs afero.Fs, r paths.Resolver, opts ...Option) *Manager {
	m := &Manager{
		fs:             fs,
		rootDir:        Dir(r),
		retentionCount: DefaultRetentionCount,
		version:        "dev",
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies the file at path into a new backup for agentID and prunes
// backups beyond the retention count. A missing file has nothing to back up:
// Backup returns a nil manifest and no error.
func (m *Manager) Backup(agentID, path string) (*Manifest, error) {
	if agentID == "" {
		return nil, errors.New("agent is required")
	}
	if path == "" {
		return nil, errors.New("path is required")
	}

	data, exists, err := fileutil.ReadFileIfExists(m.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !exists {
		return nil, nil
	}
	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	created := m.now()
	id, err := m.nextID(agentID, created)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(agentID, id)
	if err := m.fs.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    created.UTC(),
		Agent:        agentID,
		OriginalPath: path,
		FileName:     filepath.Base(path),
		SHA256Hash:   hashBytes(data),
		Mode:         info.Mode().Perm(),
		MMCPVersion:  m.version,
		ID:           id,
	}

	if err := fileutil.AtomicWriteFile(m.fs, filepath.Join(dir, manifest.FileName), data, 0o600); err != nil {
		return nil, errors.Wrap(err, "copying file")
	}

	mdata, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	if err := fileutil.AtomicWriteFile(m.fs, filepath.Join(dir, manifestFile), mdata, 0o600); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(agentID, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// nextID returns a timestamp ID for t, suffixed when a backup from the same
// second already exists.
func (m *Manager) nextID(agentID string, t time.Time) (string, error) {
	base := t.UTC().Format(idLayout)
	id := base
	for n := 2; ; n++ {
		exists, err := afero.DirExists(m.fs, m.backupPath(agentID, id))
		if err != nil {
			return "", errors.Wrap(err, "checking backup directory")
		}
		if !exists {
			return id, nil
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

// Restore writes a backup back to its original path with its original
// permissions. An empty backupID restores the most recent backup.
func (m *Manager) Restore(agentID, backupID string) (*Manifest, error) {
	if agentID == "" {
		return nil, errors.New("agent is required")
	}

	var manifest *Manifest
	if backupID == "" {
		all, err := m.List(agentID)
		if err != nil {
			return nil, err
		}
		manifest = &all[0]
	} else {
		var err error
		if manifest, err = m.Get(agentID, backupID); err != nil {
			return nil, err
		}
	}

	src := filepath.Join(m.backupPath(agentID, manifest.ID), manifest.FileName)
	data, err := afero.ReadFile(m.fs, src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup file %s", src)
	}
	if hashBytes(data) != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", manifest.ID)
	}

	if err := m.fs.MkdirAll(filepath.Dir(manifest.OriginalPath), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", manifest.OriginalPath)
	}
	mode := manifest.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := fileutil.AtomicWriteFile(m.fs, manifest.OriginalPath, data, mode); err != nil {
		return nil, errors.Wrapf(err, "restoring %s", manifest.OriginalPath)
	}
	return manifest, nil
}

// List returns the backups of an agent, newest first.
func (m *Manager) List(agentID string) ([]Manifest, error) {
	if agentID == "" {
		return nil, errors.New("agent is required")
	}

	entries, err := afero.ReadDir(m.fs, m.agentBackupDir(agentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "agent %s", agentID)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(agentID, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "agent %s", agentID)
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	return manifests, nil
}

// Prune removes backups beyond the keep most recent ones.
func (m *Manager) Prune(agentID string, keep int) error {
	if agentID == "" {
		return errors.New("agent is required")
	}
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(agentID)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for i := keep; i < len(manifests); i++ {
		if err := m.fs.RemoveAll(m.backupPath(agentID, manifests[i].ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
	}
	return nil
}

// Get returns the manifest of a specific backup.
func (m *Manager) Get(agentID, backupID string) (*Manifest, error) {
	if agentID == "" {
		return nil, errors.New("agent is required")
	}
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}

	data, err := afero.ReadFile(m.fs, filepath.Join(m.backupPath(agentID, backupID), manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = backupID
	return &manifest, nil
}

func (m *Manager) backupPath(agentID, backupID string) string {
	return filepath.Join(m.agentBackupDir(agentID), backupID)
}

func (m *Manager) agentBackupDir(agentID string) string {
	return filepath.Join(m.rootDir, agentID)
}

// compareIDs orders IDs by timestamp, then by collision suffix.
func compareIDs(a, b string) int {
	aBase, aN := splitID(a)
	bBase, bN := splitID(b)
	if c := strings.Compare(aBase, bBase); c != 0 {
		return c
	}
	return aN - bN
}

func splitID(id string) (string, int) {
	base, suffix, ok := strings.Cut(id, "-")
	if !ok {
		return id, 1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return id, 1
	}
	return base, n
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
