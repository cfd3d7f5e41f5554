package site

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupPostsByCategory(t *testing.T) {
	posts := []Post{
		{Title: "Swarm setup", Date: date(2018, 8, 21), Category: "docker", URL: "/posts/swarm.html"},
		{Title: "Next.js auth", Date: date(2018, 10, 2), Category: "nextjs", URL: "/posts/auth.html"},
		{Title: "Mongo on Swarm", Date: date(2018, 9, 10), Category: "docker", URL: "/posts/mongo.html"},
		{Title: "About", Date: date(2018, 8, 1), Category: "", URL: "/about.html"},
		{Title: "Scala seed", Date: date(2019, 1, 15), Category: "scala", URL: "/posts/scala.html"},
	}
	groups := GroupPostsByCategory(posts)
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups but got %d", len(groups))
	}
	wantOrder := []string{"docker", "nextjs", "scala"}
	for i, name := range wantOrder {
		if groups[i].Name != name {
			t.Errorf("Group %d: expected %q but got %q", i, name, groups[i].Name)
		}
	}
	// input order is preserved within a group, not re-sorted
	docker := groups[0].Posts
	if len(docker) != 2 || docker[0].Title != "Swarm setup" || docker[1].Title != "Mongo on Swarm" {
		t.Errorf("docker group out of order: %v", docker)
	}
}

func TestGroupPostsByCategoryEmpty(t *testing.T) {
	if groups := GroupPostsByCategory(nil); len(groups) != 0 {
		t.Errorf("Expected no groups but got %v", groups)
	}
}

func TestRenderCategoryIndex(t *testing.T) {
	// the example from the data model: two categories, in input order
	groups := []CategoryGroup{
		{Name: "docker", Posts: []Post{
			{Title: "Setting up MongoDB on Docker Swarm", Date: date(2018, 9, 10), Category: "docker", URL: "/docker/mongo"},
		}},
		{Name: "nextjs", Posts: []Post{
			{Title: "Adding authentication to a Next.js app", Date: date(2018, 10, 2), Category: "nextjs", URL: "/nextjs/auth"},
		}},
	}
	var out bytes.Buffer
	err := RenderCategoryIndex(&out, groups)
	if err != nil {
		t.Fatal(err)
	}
	html := out.String()

	if n := strings.Count(html, "<h2 "); n != len(groups) {
		t.Errorf("Expected %d heading blocks but got %d:\n%s", len(groups), n, html)
	}
	dockerAt := strings.Index(html, `id="docker"`)
	nextjsAt := strings.Index(html, `id="nextjs"`)
	if dockerAt < 0 || nextjsAt < 0 || dockerAt > nextjsAt {
		t.Errorf("Headings missing or out of order:\n%s", html)
	}
	for _, want := range []string{
		`href="/docker/mongo"`,
		">Setting up MongoDB on Docker Swarm</a>",
		"September 10, 2018",
		`href="/nextjs/auth"`,
		"October 2, 2018",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, html)
		}
	}
}

func TestRenderCategoryIndexHeadingCount(t *testing.T) {
	var groups []CategoryGroup
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("category-%d", i)
		groups = append(groups, CategoryGroup{Name: name, Posts: []Post{
			{Title: "Post", Date: date(2020, 1, i+1), Category: name, URL: "/p.html"},
		}})
	}
	var out bytes.Buffer
	if err := RenderCategoryIndex(&out, groups); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "<h2 "); n != len(groups) {
		t.Errorf("Expected %d heading blocks but got %d", len(groups), n)
	}
}

func TestRenderCategoryIndexOrderPreserved(t *testing.T) {
	groups := []CategoryGroup{
		{Name: "docker", Posts: []Post{
			{Title: "Third chronologically", Date: date(2019, 3, 1), URL: "/c.html"},
			{Title: "First chronologically", Date: date(2018, 1, 1), URL: "/a.html"},
			{Title: "Second chronologically", Date: date(2018, 6, 1), URL: "/b.html"},
		}},
	}
	var out bytes.Buffer
	if err := RenderCategoryIndex(&out, groups); err != nil {
		t.Fatal(err)
	}
	html := out.String()
	third := strings.Index(html, "Third chronologically")
	first := strings.Index(html, "First chronologically")
	second := strings.Index(html, "Second chronologically")
	if !(third < first && first < second) {
		t.Errorf("List order does not preserve input order:\n%s", html)
	}
}

func TestRenderCategoryIndexEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := RenderCategoryIndex(&out, nil); err != nil {
		t.Fatal(err)
	}
	html := out.String()
	if !strings.Contains(html, `<div class="category-index">`) {
		t.Errorf("Expected empty container:\n%s", html)
	}
	if strings.Contains(html, "<h2") {
		t.Errorf("Expected no heading blocks:\n%s", html)
	}
}

func TestRenderCategoryIndexDeterministic(t *testing.T) {
	groups := []CategoryGroup{
		{Name: "scala", Posts: []Post{
			{Title: "Scala seed", Date: date(2019, 1, 15), URL: "/posts/scala.html"},
		}},
	}
	var a, b bytes.Buffer
	if err := RenderCategoryIndex(&a, groups); err != nil {
		t.Fatal(err)
	}
	if err := RenderCategoryIndex(&b, groups); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("Output differs between runs:\n%s\n---\n%s", a.String(), b.String())
	}
}

func TestDisplayName(t *testing.T) {
	var tests = []struct {
		in   string
		want string
	}{
		{"docker", "Docker"},
		{"nextjs", "Nextjs"},
		{"machine-learning", "Machine Learning"},
	}
	for _, test := range tests {
		if got := displayName(test.in); got != test.want {
			t.Errorf("displayName(%q): expected %q but got %q", test.in, test.want, got)
		}
	}
}
