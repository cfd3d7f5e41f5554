// Command inkwell-export renders a blog folder into a static site ready to
// publish: every Markdown page becomes its rendered HTML file, static assets
// are copied as-is, and the category index and sitemap are generated.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"inkwell/site"
)

func main() {
	folder := flag.String("folder", ".", "Blog folder to export.")
	out := flag.String("out", "public", "Output folder for the static site.")
	flag.Parse()

	vfs, err := site.New(os.DirFS(*folder))
	if err != nil {
		log.Fatalf("Cannot create site file system for %q: %s", *folder, err)
	}

	// start from a clean output folder
	if err := os.RemoveAll(*out); err != nil {
		log.Fatalf("Cannot clean %q: %s", *out, err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("Cannot create %q: %s", *out, err)
	}

	count := 0
	err = fs.WalkDir(vfs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			return os.MkdirAll(filepath.Join(*out, p), 0o755)
		}
		b, err := fs.ReadFile(vfs, p)
		if err != nil {
			// a draft can cross its publish boundary mid-walk
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		count++
		return os.WriteFile(filepath.Join(*out, p), b, 0o644)
	})
	if err != nil {
		log.Fatalf("Export failed: %s", err)
	}

	// The category index is generated on demand, so folder walks don't list
	// it; render it explicitly.
	b, err := fs.ReadFile(vfs, "categories.html")
	if err != nil {
		log.Fatalf("Cannot render category index: %s", err)
	}
	if err := os.WriteFile(filepath.Join(*out, "categories.html"), b, 0o644); err != nil {
		log.Fatalf("Cannot write category index: %s", err)
	}
	count++

	log.Printf("Exported %d files to %q", count, *out)
}
