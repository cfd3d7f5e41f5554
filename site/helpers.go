package site

import (
	"strings"
)

var hiddenFiles = []string{
	"template",
	"inkwell.cfg",
}

// isHiddenFile returns true if the given file is considered
// hidden from outside view.
func isHiddenFile(name string) bool {
	for _, s := range hiddenFiles {
		if name == s || strings.HasPrefix(name, s+"/") {
			return true
		}
	}
	return false
}

// containsSpecialFile reports whether name contains a path element starting with a period
// or is another kind of special file. The name is assumed to be delimited by forward
// slashes, as guaranteed by the fs.FS interface.
func containsSpecialFile(name string) bool {
	parts := strings.Split(name, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// isErrorPage reports whether the name is one of the custom error pages,
// which are kept out of listings.
func isErrorPage(name string) bool {
	return name == "404.html" || name == "500.html" || name == "404.md" || name == "500.md"
}
