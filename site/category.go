package site

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Post holds the metadata of a single blog entry as it appears in listings.
// The body of the post is opaque to the category index.
type Post struct {
	Title    string    // Title from front matter, or the filename
	Date     time.Time // Publish date
	Category string    // Category key
	URL      string    // Site-relative path of the rendered page
}

// CategoryGroup pairs a category key with the posts declaring it.
// Categories are a derived view; they do not own their posts.
type CategoryGroup struct {
	Name  string
	Posts []Post
}

// GroupPostsByCategory groups posts by their category key. Categories appear
// in the order they are first encountered, and within a group the input order
// of posts is preserved. Posts with an empty category are pages, not blog
// entries, and are left out.
func GroupPostsByCategory(posts []Post) []CategoryGroup {
	var (
		groups []CategoryGroup
		index  = make(map[string]int)
	)
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Name: p.Category})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	return groups
}

// displayName returns the title-cased display form of a category key,
// so "docker" renders as "Docker". The slug keeps the raw key.
func displayName(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "-", " "))
}

// longDate formats a date like "September 10, 2018" for listings.
func longDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// categoryIndexTemplate renders the category index fragment. The styling is
// inline and presentational only: spacing between the title and date columns,
// a border under each heading, and a muted date color.
const categoryIndexTemplate = `<div class="category-index">
{{- if . }}
<style>
.category-index h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3em; }
.category-index ul { list-style: none; padding-left: 0; }
.category-index li { display: flex; justify-content: space-between; margin: 0.4em 0; }
.category-index .date { color: #888; margin-left: 2em; white-space: nowrap; }
</style>
{{- end }}
{{- range . }}
<h2 id="{{ slugify .Name }}">{{ display .Name }}</h2>
<ul>
{{- range .Posts }}
<li><a href="{{ .URL }}">{{ .Title }}</a><span class="date">{{ longdate .Date }}</span></li>
{{- end }}
</ul>
{{- end }}
</div>
`

var (
	categoryTpl     *template.Template
	categoryTplOnce sync.Once
)

// RenderCategoryIndex writes the category index fragment for the given
// groups. It is a pure function of its input: one heading block per group,
// in the given order, each followed by the group's posts in the given order.
// Empty input produces an empty container with no heading blocks.
func RenderCategoryIndex(w io.Writer, groups []CategoryGroup) error {
	categoryTplOnce.Do(func() {
		categoryTpl = template.Must(template.New("categoryindex").Funcs(template.FuncMap{
			"slugify":  Slugify,
			"display":  displayName,
			"longdate": longDate,
		}).Parse(categoryIndexTemplate))
	})
	err := categoryTpl.Execute(w, groups)
	if err != nil {
		return fmt.Errorf("RenderCategoryIndex: %w", err)
	}
	return nil
}

// collectPosts walks the underlying file system and returns the metadata of
// every published Markdown page, in walk order. Hidden files, special pages,
// and future-dated pages are skipped.
func (vfs *FS) collectPosts() ([]Post, error) {
	var posts []Post
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
		if isHiddenFile(p) || containsSpecialFile(p) || isErrorPage(path.Base(p)) {
			return nil
		}
		if path.Ext(p) != ".md" || path.Base(p) == "index.md" {
			return nil
		}
		var fm FrontMatter
		err = vfs.readFrontMatter(p, &fm)
		if err != nil {
			// malformed metadata is a content-authoring concern; skip the page
			return nil
		}
		if !fm.Date.IsZero() && time.Now().Before(fm.Date) {
			return nil
		}
		title := fm.Title
		if title == "" {
			title = strings.TrimSuffix(path.Base(p), ".md")
		}
		posts = append(posts, Post{
			Title:    title,
			Date:     fm.Date,
			Category: fm.Category,
			URL:      "/" + strings.TrimSuffix(p, ".md") + ".html",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collectPosts: %w", err)
	}
	return posts, nil
}

// categories groups the site's posts by category and is used in templates.
func (vfs *FS) categories() []CategoryGroup {
	posts, err := vfs.cachedPosts()
	if err != nil {
		return nil
	}
	return GroupPostsByCategory(posts)
}
