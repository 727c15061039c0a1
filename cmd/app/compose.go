package app

import (
	"context"
	"fmt"
	"strings"
)

// composeView collects a new post. Title and content are required; whether
// the backend should auto-generate hashtags is a yes/no toggle. Returns true
// when the post was created, so the caller re-fetches both lists.
func (a *App) composeView(ctx context.Context, userID string) bool {
	title, ok := a.promptRequired("Title: ")
	if !ok {
		return false
	}
	content, ok := a.promptRequired("Content: ")
	if !ok {
		return false
	}
	answer, ok := a.prompt("Auto-generate hashtags? [y/N] ")
	if !ok {
		return false
	}
	autoHashtag := strings.EqualFold(answer, "y")

	resp, err := a.client.CreatePost(ctx, userID, title, content, autoHashtag)
	if err != nil {
		logg.Error("app/compose", "Create post request failed", err)
		fmt.Fprintln(a.out, "Failed to create post: "+errorMessage(err))
		return false
	}
	if !strings.Contains(resp.Message, "SUCCESSFULLY") {
		fmt.Fprintln(a.out, "Failed to create post. Please try again.")
		return false
	}

	if len(resp.Hashtags) > 0 {
		fmt.Fprintf(a.out, "Posted (#%d) with hashtags: %s\n", resp.PostID, strings.Join(resp.Hashtags, " "))
	} else {
		fmt.Fprintf(a.out, "Posted (#%d).\n", resp.PostID)
	}
	return true
}
