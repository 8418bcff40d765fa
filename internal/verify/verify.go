// Package verify classifies the tracked files of a game installation
// as genuine, tampered, missing, or unreadable. Checks are independent:
// a failure on one file never blocks evaluation of the others, and the
// engine performs no retries.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hapfel1/fromsoft-troubleshooter/internal/catalog"
	"github.com/hapfel1/fromsoft-troubleshooter/internal/games"
)

// Status classifies the outcome of checking one tracked file.
type Status int

const (
	// StatusOK means the file is present with an in-range size and, when
	// hashing ran, a matching hash.
	StatusOK Status = iota
	// StatusSizeMismatch means the byte size falls outside the expected
	// inclusive range.
	StatusSizeMismatch
	// StatusHashMismatch means the size was in range but the SHA-256
	// digest differs from the expected one.
	StatusHashMismatch
	// StatusMissing means a file whose absence is fatal does not exist.
	StatusMissing
	// StatusAbsent means an optional file does not exist. Informational
	// only.
	StatusAbsent
	// StatusUnreadable means the file exists but could not be inspected,
	// distinct from missing: "installed but inaccessible" calls for
	// different remediation than "not installed".
	StatusUnreadable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSizeMismatch:
		return "size-mismatch"
	case StatusHashMismatch:
		return "hash-mismatch"
	case StatusMissing:
		return "missing"
	case StatusAbsent:
		return "absent"
	case StatusUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// FileVerdict is the classification of one tracked file. Size carries
// the actual byte size when the file could be statted; Hash carries the
// computed digest when hashing ran.
type FileVerdict struct {
	Path     string
	Status   Status
	Size     int64
	WantMin  int64
	WantMax  int64
	Hash     string
	WantHash string
	Err      error
}

// Options configures a verification run.
type Options struct {
	// Hash enables SHA-256 comparison for entries that carry an
	// expected digest. Off by default: hashing reads whole files and
	// the size check alone catches the common tampering cases.
	Hash bool
	// Progress, when set, is called after each file's verdict with the
	// number of files done and the total.
	Progress func(done, total int, v FileVerdict)
}

// Engine verifies installations against a bound profile. It holds no
// mutable state and may be reused across runs.
type Engine struct {
	fs   afero.Fs
	opts Options
}

// New returns an engine backed by the operating system filesystem.
func New(opts Options) *Engine {
	return NewWithFS(afero.NewOsFs(), opts)
}

// NewWithFS returns an engine backed by the given filesystem.
func NewWithFS(fs afero.Fs, opts Options) *Engine {
	return &Engine{fs: fs, opts: opts}
}

// Verify checks every tracked file of the profile under installDir and
// returns one verdict per file, in profile order. The verdict count
// always equals the tracked-file count, regardless of how many
// individual checks fail.
func (e *Engine) Verify(p games.Profile, installDir string) []FileVerdict {
	verdicts := make([]FileVerdict, 0, len(p.Files))
	for _, tf := range p.Files {
		v := e.checkOne(tf, installDir)
		verdicts = append(verdicts, v)
		if e.opts.Progress != nil {
			e.opts.Progress(len(verdicts), len(p.Files), v)
		}
	}
	return verdicts
}

func (e *Engine) checkOne(tf catalog.TrackedFile, installDir string) FileVerdict {
	v := FileVerdict{
		Path:     tf.Path,
		WantMin:  tf.SizeMin,
		WantMax:  tf.SizeMax,
		WantHash: tf.SHA256,
	}

	full := filepath.Join(installDir, filepath.FromSlash(tf.Path))

	info, err := e.fs.Stat(full)
	switch {
	case os.IsNotExist(err):
		if tf.Fatal {
			v.Status = StatusMissing
		} else {
			v.Status = StatusAbsent
		}
		return v
	case err != nil:
		v.Status = StatusUnreadable
		v.Err = err
		return v
	case info.IsDir():
		v.Status = StatusUnreadable
		v.Err = fmt.Errorf("%s is a directory", tf.Path)
		return v
	}

	v.Size = info.Size()
	if v.Size < tf.SizeMin || v.Size > tf.SizeMax {
		v.Status = StatusSizeMismatch
		return v
	}

	v.Status = StatusOK
	if !e.opts.Hash || tf.SHA256 == "" {
		return v
	}

	// Files already condemned by size are never hashed; hashing only
	// upgrades a size-OK verdict.
	sum, err := e.hashFile(full)
	if err != nil {
		v.Status = StatusUnreadable
		v.Err = err
		return v
	}
	v.Hash = sum
	if sum != tf.SHA256 {
		v.Status = StatusHashMismatch
	}
	return v
}

func (e *Engine) hashFile(path string) (string, error) {
	f, err := e.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
