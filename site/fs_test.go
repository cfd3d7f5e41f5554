package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// futurePage is the draft in the example site that must stay unpublished.
const futurePage = "posts/2100-01-01-kubernetes-migration.html"

func TestFS(t *testing.T) {
	const count = 10
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			numEntries := 0
			fs.WalkDir(fileSys, ".", func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					t.Error(err)
				}
				if path == "" {
					t.Error("Path is empty")
					return nil
				}
				numEntries++
				if path == futurePage {
					t.Errorf("Future-dated draft %q should not be listed", path)
					return nil
				}
				if !d.IsDir() {
					b, err := fs.ReadFile(fileSys, path)
					if err != nil {
						t.Errorf("Cannot read %q: %v", path, err)
						return nil
					}
					if len(b) == 0 {
						t.Errorf("File %q has no data", path)
					}
				} else {
					_, err := fs.ReadDir(fileSys, path)
					if err != nil {
						t.Errorf("Cannot readdir %q: %v", path, err)
					}
				}
				fi, err := fs.Stat(fileSys, path)
				if err != nil {
					t.Errorf("Cannot stat %q: %v", path, err)
					return nil
				}
				if !strings.HasSuffix(path, fi.Name()) {
					t.Errorf("%q should be part of %q", fi.Name(), path)
				}
				if !fi.IsDir() && fi.Size() == 0 {
					t.Errorf("Expected %q to have non-zero size", path)
				}
				if fi.ModTime().IsZero() {
					t.Errorf("Expected %q to have non-zero mod time", path)
				}
				return nil
			})
			t.Logf("saw %d entries", numEntries)
		}()
	}
	wg.Wait()
}

func TestReadFile(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	b, err := fs.ReadFile(fileSys, "index.html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Field Notes") {
		t.Errorf("Expected rendered index to contain the site title:\n%s", string(b))
	}
}

func TestCategoriesPage(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	b, err := fs.ReadFile(fileSys, "categories.html")
	if err != nil {
		t.Fatal(err)
	}
	html := string(b)

	// one heading block per distinct category, in first-seen order
	if n := strings.Count(html, "<h2 "); n != 4 {
		t.Errorf("Expected 4 heading blocks but got %d:\n%s", n, html)
	}
	last := -1
	for _, id := range []string{`id="docker"`, `id="nextjs"`, `id="nodejs"`, `id="scala"`} {
		at := strings.Index(html, id)
		if at < 0 {
			t.Errorf("Expected heading %s", id)
		}
		if at < last {
			t.Errorf("Heading %s out of order", id)
		}
		last = at
	}

	// collection order within a category, not re-sorted
	swarm := strings.Index(html, "Setting up a Docker Swarm cluster")
	mongo := strings.Index(html, "Setting up MongoDB on Docker Swarm")
	if swarm < 0 || mongo < 0 || swarm > mongo {
		t.Errorf("docker posts missing or out of order:\n%s", html)
	}

	if !strings.Contains(html, "September 10, 2018") {
		t.Errorf("Expected long-form date:\n%s", html)
	}
	if !strings.Contains(html, `href="/posts/2018-09-10-mongodb-docker-swarm.html"`) {
		t.Errorf("Expected post link:\n%s", html)
	}

	// future-dated drafts stay out of the index
	if strings.Contains(html, "Migrating the cluster to Kubernetes") {
		t.Errorf("Future-dated post should not be listed:\n%s", html)
	}
}

func TestFuturePageNotServed(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	_, err = fileSys.Open(futurePage)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist but got %v", err)
	}
}

func TestSitemap(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	b, err := fs.ReadFile(fileSys, "sitemap.txt")
	if err != nil {
		t.Fatal(err)
	}
	txt := string(b)
	if !strings.Contains(txt, "https://fieldnotes.example.com/posts/2018-09-10-mongodb-docker-swarm") {
		t.Errorf("Expected post entry in sitemap:\n%s", txt)
	}
	// the generated category index is a served page
	if !strings.Contains(txt, "https://fieldnotes.example.com/categories.html") {
		t.Errorf("Expected category index entry in sitemap:\n%s", txt)
	}
	if strings.Contains(txt, "404") || strings.Contains(txt, "500") {
		t.Errorf("Error pages should not be listed:\n%s", txt)
	}
	if strings.Contains(txt, "2100-01-01") {
		t.Errorf("Future-dated post should not be listed:\n%s", txt)
	}
}

func TestHiddenFiles(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	for _, name := range []string{"inkwell.cfg", "template", ".git/config"} {
		_, err := fileSys.Open(name)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open(%q): expected fs.ErrNotExist but got %v", name, err)
		}
	}
}

func TestReadDir(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	entries, err := fs.ReadDir(fileSys, "posts")
	if err != nil {
		t.Fatal(err)
	}
	var sawMongo, sawIndex bool
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".md") {
			t.Errorf("Markdown file %q should appear under its rendered name", entry.Name())
		}
		switch entry.Name() {
		case "2018-09-10-mongodb-docker-swarm.html":
			sawMongo = true
		case "index.html":
			sawIndex = true
		case "2100-01-01-kubernetes-migration.html", "2100-01-01-kubernetes-migration.md":
			t.Errorf("Future-dated draft %q should not be listed", entry.Name())
		}
		inf, err := entry.Info()
		if err != nil {
			t.Error(err)
		} else {
			t.Logf("%s %10d  %s  %s", inf.Mode(), inf.Size(), inf.ModTime().Format(time.UnixDate), inf.Name())
		}
	}
	if !sawMongo || !sawIndex {
		t.Errorf("Missing expected entries in listing: %v", entries)
	}
}

func TestReadDirLoop(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}

	f, err := fileSys.Open("posts")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		err := f.Close()
		if err != nil {
			t.Error(err)
		}
	}()

	rdf, ok := f.(fs.ReadDirFile)
	if !ok {
		t.Error("posts is not a ReadDirFile")
		return
	}

	var dirs []fs.DirEntry
	for {
		dirs, err = rdf.ReadDir(2)
		if errors.Is(err, io.EOF) {
			if len(dirs) != 0 {
				t.Errorf("Expected empty directory at EOF")
			}
			break
		}
		if err != nil {
			t.Error(err)
			break
		}
		if len(dirs) == 0 {
			t.Errorf("Should not return empty directory if not EOF")
			break
		}
		if len(dirs) > 2 {
			t.Errorf("Returned more than 2 entries: %d", len(dirs))
		}
		t.Log(dirs)
	}
}

func TestConfig(t *testing.T) {
	fileSys, err := New(os.DirFS("../example"))
	if err != nil {
		t.Error(err)
		return
	}
	cfg, err := fileSys.Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil {
		t.Fatal("Expected a config")
	}
	if cfg.SiteTitle != "Field Notes" {
		t.Errorf("Unexpected site title %q", cfg.SiteTitle)
	}
	if time.Duration(cfg.Expires) != 5*time.Minute {
		t.Errorf("Unexpected expires %s", cfg.Expires)
	}
	if cfg.Headers["X-Frame-Options"] != "DENY" {
		t.Errorf("Unexpected headers %v", cfg.Headers)
	}
}
