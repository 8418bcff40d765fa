// Package savefile inspects save-file health: presence, readability,
// and a size floor that catches truncated or corrupted saves.
package savefile

import (
	"os"

	"github.com/spf13/afero"
)

// MinHealthySize is the smallest plausible save file in bytes. Real
// saves are tens of KiB at minimum; anything below this is treated as
// corrupted.
const MinHealthySize = 1000

// Health describes the state of one save file.
type Health struct {
	// Exists reports whether the file is present.
	Exists bool
	// Readable reports whether an open probe succeeded.
	Readable bool
	// ReadErr carries the cause when the file exists but could not be
	// read.
	ReadErr error
	// Size is the byte size, valid when Exists.
	Size int64
}

// TooSmall reports whether a readable save is below MinHealthySize.
func (h Health) TooSmall() bool {
	return h.Exists && h.Readable && h.Size < MinHealthySize
}

// Inspector checks save files.
type Inspector struct {
	fs afero.Fs
}

// New returns an inspector backed by the operating system filesystem.
func New() *Inspector {
	return NewWithFS(afero.NewOsFs())
}

// NewWithFS returns an inspector backed by the given filesystem.
func NewWithFS(fs afero.Fs) *Inspector {
	return &Inspector{fs: fs}
}

// Inspect reports the health of the save file at path. A stat or open
// failure other than non-existence surfaces in ReadErr; readability is
// probed with an open, mirroring an access check.
func (i *Inspector) Inspect(path string) Health {
	info, err := i.fs.Stat(path)
	if os.IsNotExist(err) {
		return Health{}
	}
	if err != nil {
		return Health{Exists: true, ReadErr: err}
	}

	h := Health{Exists: true, Size: info.Size()}
	f, err := i.fs.Open(path)
	if err != nil {
		h.ReadErr = err
		return h
	}
	f.Close()
	h.Readable = true
	return h
}
