package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/russross/blackfriday/v2"
)

// renderFile holds rendered content posing as the virtual page. The
// underlying file's info is captured at render time because the file itself
// is closed once rendering is done.
type renderFile struct {
	name   string
	info   fs.FileInfo   // info of the underlying file
	reader io.ReadSeeker // Main Reader to use
	size   int64         // Length of data
}

// Stat returns a FileInfo describing the file.
func (f *renderFile) Stat() (fs.FileInfo, error) {
	return renderFileInfo{
		FileInfo: virtualFileInfo{FileInfo: f.info, name: f.name},
		size:     f.size,
	}, nil
}

// Read reads up to len(b) bytes from the File. It returns the number of bytes read
// and any error encountered. At end of file, Read returns 0, io.EOF.
func (f *renderFile) Read(b []byte) (int, error) {
	return f.reader.Read(b)
}

// Seek sets the offset for the next Read to offset, interpreted according
// to whence: io.SeekStart means relative to the start of the file, io.SeekCurrent
// means relative to the current offset, and io.SeekEnd means relative to the end.
// Seek returns the new offset relative to the start of the file and an error, if any.
func (f *renderFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// Close closes the file. The rendered data is in memory, so this function
// does nothing.
func (f *renderFile) Close() error {
	return nil
}

// renderFileInfo holds the metadata about the file and overrides the size,
// which is important for reporting the length of the rendered data.
type renderFileInfo struct {
	fs.FileInfo

	size int64 // Size of rendered data
}

// Size reports the length of the file.
func (rfi renderFileInfo) Size() int64 {
	return rfi.size
}

// newMarkdownFile reads the underlying markdown file, extracts the front matter,
// renders the markdown, and executes the selected template, returning the
// resulting renderFile.
func (vfs *FS) newMarkdownFile(f fs.File, pathname string) (fs.File, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("newMarkdownFile: %w", err)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("newMarkdownFile: %w", err)
	}

	fm, r := extractFrontMatter(b)

	var front FrontMatter
	if len(fm) > 0 {
		err = toml.Unmarshal(fm, &front)
		if err != nil {
			return nil, fmt.Errorf("newMarkdownFile: %w", err)
		}
	}

	// don't serve pages before their publish date
	if !front.Date.IsZero() && time.Now().Before(front.Date) {
		return nil, &fs.PathError{Op: "open", Path: pathname, Err: fs.ErrNotExist}
	}

	md := template.HTML(blackfriday.Run(r, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.Footnotes)))

	// prepare template data
	p, bn := path.Split(pathname)
	var data = data{
		FrontMatter: front,
		Page: PageInfo{
			Path:     p,
			Filename: bn,
		},
		Site:    SiteInfo{Title: vfs.cfg.SiteTitle},
		Content: md,
	}

	// Render the HTML template
	templateName := "default"
	if data.FrontMatter.Template != "" {
		templateName = data.FrontMatter.Template
	}
	tpl := vfs.getTemplates()
	var wtr bytes.Buffer
	err = tpl.ExecuteTemplate(&wtr, templateName, data)
	if err != nil {
		log.Printf("Error executing template: %s", err)
	}

	return &renderFile{
		name:   bn,
		info:   fi,
		reader: bytes.NewReader(wtr.Bytes()),
		size:   int64(wtr.Len()),
	}, nil
}

// newCategoryIndexFile builds the virtual category index page. Posts are
// grouped by category in collection order, the fragment is rendered, and the
// result is wrapped in the "categories" template.
func (vfs *FS) newCategoryIndexFile(pathname string) (fs.File, error) {
	posts, err := vfs.cachedPosts()
	if err != nil {
		return nil, fmt.Errorf("newCategoryIndexFile: %w", err)
	}
	groups := GroupPostsByCategory(posts)

	var fragment bytes.Buffer
	err = RenderCategoryIndex(&fragment, groups)
	if err != nil {
		return nil, fmt.Errorf("newCategoryIndexFile: %w", err)
	}

	var data = data{
		FrontMatter: FrontMatter{Title: "Categories"},
		Page: PageInfo{
			Path:     "/",
			Filename: pathname,
		},
		Site:    SiteInfo{Title: vfs.cfg.SiteTitle},
		Content: template.HTML(fragment.String()),
	}

	tpl := vfs.getTemplates()
	var wtr bytes.Buffer
	err = tpl.ExecuteTemplate(&wtr, "categories", data)
	if err != nil {
		return nil, fmt.Errorf("newCategoryIndexFile: %w", err)
	}

	// report the newest post date so caches see a stable mod time
	modTime := time.Now()
	if len(posts) > 0 {
		modTime = posts[0].Date
		for _, p := range posts {
			if p.Date.After(modTime) {
				modTime = p.Date
			}
		}
	}

	return &memFile{
		name:    pathname,
		modTime: modTime,
		reader:  strings.NewReader(wtr.String()),
	}, nil
}

// newSitemapFile parses the underlying text file as a template and executes
// it with the site's page list, returning the resulting renderFile.
func (vfs *FS) newSitemapFile(f fs.File, pathname string) (fs.File, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("newSitemapFile: %w", err)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("newSitemapFile: %w", err)
	}
	tpl, err := texttemplate.New("sitemap").Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("newSitemapFile: %w", err)
	}
	pages, err := vfs.collectPages()
	if err != nil {
		return nil, fmt.Errorf("newSitemapFile: %w", err)
	}
	_, bn := path.Split(pathname)
	var wtr bytes.Buffer
	err = tpl.Execute(&wtr, pages)
	if err != nil {
		return nil, fmt.Errorf("newSitemapFile: %w", err)
	}
	return &renderFile{
		name:   bn,
		info:   fi,
		reader: bytes.NewReader(wtr.Bytes()),
		size:   int64(wtr.Len()),
	}, nil
}

// collectPages returns the URL paths of every published page on the site,
// for use by the sitemap template. Markdown pages lose their extension and
// index pages collapse to their folder.
func (vfs *FS) collectPages() ([]string, error) {
	var (
		pages         []string
		sawCategories bool
	)
	err := fs.WalkDir(vfs.fs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			if isHiddenFile(p) || containsSpecialFile(p) {
				return fs.SkipDir
			}
			return nil
		}
		if isHiddenFile(p) || containsSpecialFile(p) || isErrorPage(path.Base(p)) || path.Base(p) == "sitemap.txt" {
			return nil
		}
		if path.Ext(p) == ".md" {
			var fm FrontMatter
			err = vfs.readFrontMatter(p, &fm)
			if err != nil {
				log.Printf("collectPages: %s", err)
			}
			if !fm.Date.IsZero() && time.Now().Before(fm.Date) {
				return nil
			}
			if path.Base(p) == "index.md" {
				p = strings.TrimSuffix(p, "index.md")
			} else {
				p = strings.TrimSuffix(p, ".md")
			}
		}
		if p == categoriesPage {
			sawCategories = true
		}
		pages = append(pages, "/"+p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collectPages: %w", err)
	}
	// the category index exists only virtually unless the author supplied one
	if !sawCategories {
		pages = append(pages, "/"+categoriesPage)
	}
	return pages, nil
}
