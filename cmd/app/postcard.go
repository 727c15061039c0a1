package app

import (
	"fmt"
	"io"
	"strings"

	"example.com/tinysocial/internal/models"
)

// renderPost prints one post card: author line, title, content, then
// hashtags and the shared marker when present.
func renderPost(w io.Writer, p models.Post) {
	fmt.Fprintf(w, "\n#%d  %s (@%s)  %s %s\n", p.PostID, p.Name, p.UserID, p.Date, p.Time)
	if p.Title != "" {
		fmt.Fprintf(w, "  %s\n", p.Title)
	}
	fmt.Fprintf(w, "  %s\n", p.Content)
	if len(p.Hashtags) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(normalizeTags(p.Hashtags), " "))
	}
	if p.Shared {
		fmt.Fprintln(w, "  [shared]")
	}
}

// normalizeTags makes sure every tag renders with a leading #.
func normalizeTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		if strings.HasPrefix(tag, "#") {
			out[i] = tag
		} else {
			out[i] = "#" + tag
		}
	}
	return out
}
