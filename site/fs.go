/*
site implements a virtual view over an fs.FS holding a Markdown blog, making it
suitable for serving (or exporting) as a static web site. It includes a template
system, a category index page, and helpers for presenting an easy-to-maintain
authoring format.

A special file "inkwell.cfg" at the root exposes settings you can read via the
Config() function. This file is hidden from view.

A special folder "template" at the root holds HTML templates should you want to
customize. At minimum, a template called "default" is required for rendering
Markdown files, and a template called "categories" is required for the category
index page.

Hidden files and folders (those starting with ".") are ignored.

If the above conditions are not met, then the file is provided as-is from the
underlying file system.

# Markdown pages

When an endpoint like "/docker/swarm-setup.html" is requested and it does not
exist, the file system looks for a Markdown file named
"/docker/swarm-setup.md". If present, a virtual file
"/docker/swarm-setup.html" is served that renders the underlying Markdown
through the "default" template, unless the front matter names a different
template. Directory listings show the virtual ".html" names rather than the
underlying ".md" files.

# Category index

The endpoint "/categories.html" is a virtual page grouping every post by the
category declared in its front matter. Categories appear in the order they are
first encountered; within a category, posts keep the order of the underlying
collection. Each category renders as a heading whose id is the URL-safe slug
of the category name, followed by a list of post links with their dates. If
you author a real categories.html, it is served as-is instead.

# Site map

If a file in the root named "sitemap.txt" is present, it is run as a template
receiving the list of page paths, letting you customize what your site map
looks like.

# Front matter

Markdown files may contain front matter in TOML format, delimited by "+++" at
the start and end. For example:

	+++
	title = "Setting up MongoDB on Docker Swarm"
	date = 2018-09-10T00:00:00Z
	category = "docker"
	+++
	# Heading
	This is my [Markdown](https://en.wikipedia.org/wiki/Markdown).

Front matter may include:

	Name       Type                Description
	---------  ------------------  -----------------------------------------
	title      string              Title of page
	date       time                Publish date
	category   string              Category key used by the category index
	tags       array of strings    Tags to assign to this article
	template   string              Override the template to render this file
	redirect   string              Issue an HTML meta-tag redirect
	expires    duration            Use for pages that need an Expires header

Pages with a date in the future are not served and do not appear in listings.

# Templates

The system uses standard Go templates from the html/template package, and
includes default "default", "categories", and "notfound" templates. Custom
templates are stored in the "template" top-level folder with the extension
".html". Templates receive page information, front matter, site information,
and rendered HTML, and have the following helper functions available:

	dir(path string) []site.File
		Contents of the given folder, excluding special files
	sortbyname([]site.File) []site.File
		Sort by name (reverse)
	sortbytime([]site.File) []site.File
		Sort by time (reverse)
	match(string, ...string) bool
		Match string against file patterns
	filter([]site.File, ...string) []site.File
		Filter list against file patterns
	join(parts ...string) string
		The same as path.Join
	ext(path string) string
		The same as path.Ext
	prev([]site.File, string) *site.File
		Find the previous file based on Filename
	next([]site.File, string) *site.File
		Find the next file based on Filename
	reverse([]site.File) []site.File
		Reverse the list
	trimsuffix(string, string) string
		The same as strings.TrimSuffix
	trimprefix(string, string) string
		The same as strings.TrimPrefix
	trimspace(string) string
		The same as strings.TrimSpace
	markdown(string) template.HTML
		Render a Markdown file into HTML
	frontmatter(string) *site.FrontMatter
		Read front matter from a file
	slugify(string) string
		URL-safe slug of a display string
	longdate(time.Time) string
		Format a date like "September 10, 2018"
	display(string) string
		Title-cased display form of a category key
	categories() []site.CategoryGroup
		Posts grouped by category
	now() time.Time
		Current time

# Index files

Most web servers will want an "index.html" to handle folder roots (like
"/docker"). This works automatically with things like http.FileServer if you
create an "index.md" in the folder.

# Errors

To assist web implementations that want a custom page for 404 or 500 errors,
you can create 404.md and 500.md files in the root of the file system. The
sitemap, category index, and the "dir" template function will not list them,
making it straightforward to design your site. The web implementation can
request 404.html or 500.html to be served when the file system returns an
error or fs.ErrNotExist.
*/
package site

import (
	"errors"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	"sync/atomic"
)

// categoriesPage is the virtual endpoint for the category index.
const categoriesPage = "categories.html"

// FS provides a virtual view of the file system suitable for serving a
// Markdown blog in a web format.
type FS struct {
	fs       fs.FS
	id       int64
	tpl      *template.Template
	tplMutex sync.RWMutex
	cfg      Config
}

// fsCounter distinguishes FS instances in shared cache keys.
var fsCounter atomic.Int64

// New returns a new FS that presents a virtual view of innerFS.
func New(innerFS fs.FS) (*FS, error) {
	var vfs = FS{
		fs: innerFS,
		id: fsCounter.Add(1),
	}
	cfg, err := vfs.Config()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		vfs.cfg = *cfg
	}
	_, err = vfs.loadTemplates()
	if err != nil {
		return nil, err
	}

	return &vfs, nil
}

// Open opens the named file.
//
// When Open returns an error, it should be of type *fs.PathError
// with the Op field set to "open", the Path field set to name,
// and the Err field describing the problem.
//
// Open should reject attempts to open names that do not satisfy
// fs.ValidPath(name), returning a *PathError with Err set to
// ErrInvalid or ErrNotExist.
func (vfs *FS) Open(name string) (fs.File, error) {
	// Make sure the path is valid per fs rules
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	// Don't show hidden or special files
	if isHiddenFile(name) || (name != "." && containsSpecialFile(name)) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	// open the file with the underlying file system
	f, err := vfs.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// the category index is generated unless the author supplied one
			if name == categoriesPage {
				return vfs.newCategoryIndexFile(name)
			}
			// for .html files that don't exist, check for an underlying Markdown file
			if path.Ext(name) == ".html" {
				newNm := strings.TrimSuffix(name, path.Ext(name))
				if f, err2 := vfs.fs.Open(newNm + ".md"); err2 == nil {
					defer f.Close()
					return vfs.newMarkdownFile(f, newNm+".html")
				}
			}
		}
		// no matching underlying file; return error from opening the underlying file
		return f, err
	}
	// check for directory
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// Directories need to be virtual so that we don't
	// accidentally pick up the wrong ReadDir implementation.
	if fi.IsDir() {
		// don't close f because it will be used for ReadDir
		return &virtualDir{File: f, path: name, fsys: vfs}, nil
	}
	// The sitemap file, if present, needs to be handled as a virtual
	// file to process the template.
	if name == "sitemap.txt" {
		defer f.Close()
		return vfs.newSitemapFile(f, name)
	}
	return f, nil
}
