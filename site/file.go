package site

import (
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

// virtualFileInfo wraps an underlying FileInfo while overriding its name,
// so that a Markdown file can pose as its rendered HTML page.
type virtualFileInfo struct {
	fs.FileInfo
	name string
}

// Name returns the base name of the file.
func (fi virtualFileInfo) Name() string {
	return fi.name
}

// virtualDirEntry is a special version of virtualFileInfo to represent
// directory entries. It is lightweight in that it isn't as filled out as
// if you called Stat on the file itself.
type virtualDirEntry struct {
	virtualFileInfo
}

// Type returns the type bits for the entry.
// The type bits are a subset of the usual FileMode bits, those returned by the FileMode.Type method.
func (de virtualDirEntry) Type() fs.FileMode {
	return de.virtualFileInfo.Mode().Type()
}

// Info returns the FileInfo for the file or subdirectory described by the entry.
// The returned info is from the time of the directory read.
func (de virtualDirEntry) Info() (fs.FileInfo, error) {
	return de.virtualFileInfo, nil
}

// virtualDir presents a directory whose Markdown entries appear under
// their rendered ".html" names. Hidden, special, and future-dated entries
// are dropped.
type virtualDir struct {
	fs.File

	path    string
	fsys    *FS
	entries []fs.DirEntry
	offset  int
	loaded  bool
}

// ReadDir reads the contents of the directory and returns a slice of up to n
// DirEntry values, following the semantics described by fs.ReadDirFile.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.loaded {
		entries, err := fs.ReadDir(d.fsys.fs, d.path)
		if err != nil {
			return nil, err
		}
		d.entries = make([]fs.DirEntry, 0, len(entries))
		for _, entry := range entries {
			nm := entry.Name()
			if isHiddenFile(path.Join(d.path, nm)) || containsSpecialFile(nm) {
				continue
			}
			if !entry.IsDir() && path.Ext(nm) == ".md" {
				// don't list pages before their publish date
				var fm FrontMatter
				err := d.fsys.readFrontMatter(path.Join(d.path, nm), &fm)
				if err == nil && !fm.Date.IsZero() && time.Now().Before(fm.Date) {
					continue
				}
				// pose as the rendered page
				nm = strings.TrimSuffix(nm, ".md") + ".html"
			}
			fi, err := entry.Info()
			if err != nil {
				return nil, err
			}
			d.entries = append(d.entries, virtualDirEntry{
				virtualFileInfo: virtualFileInfo{FileInfo: fi, name: nm},
			})
		}
		d.loaded = true
	}
	if n <= 0 {
		r := d.entries[d.offset:]
		d.offset = len(d.entries)
		return r, nil
	}
	if d.offset >= len(d.entries) {
		return nil, io.EOF
	}
	end := d.offset + n
	if end > len(d.entries) {
		end = len(d.entries)
	}
	r := d.entries[d.offset:end]
	d.offset = end
	return r, nil
}

// memFile is a file that exists only in memory, used for pages like the
// category index that have no single underlying file.
type memFile struct {
	name    string
	modTime time.Time
	reader  *strings.Reader
}

// Stat returns information about the file.
func (f *memFile) Stat() (fs.FileInfo, error) {
	return memFileInfo{name: f.name, size: f.reader.Size(), modTime: f.modTime}, nil
}

// Read reads up to len(b) bytes from the File.
func (f *memFile) Read(b []byte) (int, error) {
	return f.reader.Read(b)
}

// Seek sets the offset for the next Read, interpreted according to whence.
func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// Close closes the file. The data is in memory, so this function does nothing.
func (f *memFile) Close() error {
	return nil
}

// memFileInfo holds the metadata about the in-memory file.
type memFileInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() fs.FileMode  { return 0444 }
func (fi memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() any           { return nil }
