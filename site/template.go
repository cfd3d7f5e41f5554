package site

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed default.html
var defaultTemplate string

// PageInfo has information about the current page.
type PageInfo struct {
	Path     string // path from URL
	Filename string // end portion (file) from URL
}

// Pathname joins the path and filename.
func (p PageInfo) Pathname() string {
	return path.Join(p.Path, p.Filename)
}

// SiteInfo carries site-wide settings into templates.
type SiteInfo struct {
	Title string
}

// data is what is passed to page templates.
type data struct {
	FrontMatter FrontMatter   // front matter from Markdown file or defaults
	Page        PageInfo      // information about the current page
	Site        SiteInfo      // site-wide settings
	Content     template.HTML // rendered Markdown
}

// getTemplates returns the parsed templates.
func (vfs *FS) getTemplates() *template.Template {
	vfs.tplMutex.RLock()
	defer vfs.tplMutex.RUnlock()
	return vfs.tpl
}

// Reload re-parses the HTML templates, for use when the template folder
// changes while serving.
func (vfs *FS) Reload() error {
	_, err := vfs.loadTemplates()
	return err
}

// loadTemplates loads and parses the HTML templates, returning true if custom templates were found.
func (vfs *FS) loadTemplates() (bool, error) {
	var err error
	funcMap := template.FuncMap{
		"dir":         vfs.dir,
		"sortbyname":  sortByName,
		"sortbytime":  sortByTime,
		"match":       match,
		"filter":      filter,
		"join":        path.Join,
		"ext":         path.Ext,
		"prev":        prev,
		"next":        next,
		"reverse":     reverse,
		"trimsuffix":  strings.TrimSuffix,
		"trimprefix":  strings.TrimPrefix,
		"trimspace":   strings.TrimSpace,
		"markdown":    vfs.md,
		"frontmatter": vfs.fm,
		"slugify":     Slugify,
		"longdate":    longDate,
		"display":     displayName,
		"categories":  vfs.categories,
		"now":         time.Now,
	}
	vfs.tplMutex.Lock()
	defer vfs.tplMutex.Unlock()
	// Check if we are using default templates
	fi, err := fs.Stat(vfs.fs, "template")
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		tpl, err := template.New("inkwell").Funcs(funcMap).Parse(defaultTemplate)
		if err != nil {
			return false, fmt.Errorf("loadTemplates: %w", err)
		}
		vfs.tpl = tpl
		return false, nil
	}
	// use custom templates
	tpl, err := template.New("inkwell").Funcs(funcMap).ParseFS(vfs.fs, "template/*.html")
	if err != nil {
		return true, fmt.Errorf("loadTemplates: %w", err)
	}
	vfs.tpl = tpl
	return true, nil
}
