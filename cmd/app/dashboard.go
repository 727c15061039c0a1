package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"example.com/tinysocial/internal/models"
)

// dashboard is the authenticated view: the feed tab, the profile tab with
// compose, and the follow box. Post lists live only here, re-fetched after
// every action that can change them. Returns false when the user quits.
func (a *App) dashboard(ctx context.Context) bool {
	user := a.session.User()

	feed := a.fetchFeed(ctx, user.UserID)
	own := a.fetchOwnPosts(ctx, user.UserID)

	a.renderFeed(feed)

	for {
		fmt.Fprintln(a.out, "\n[f]eed  [p]rofile  [c]ompose  [w]follow <user>  [s]hare <id>  [t]ags <id>  [x]translate <id> <lang>  [r]efresh  [l]ogout  [q]uit")
		line, ok := a.prompt(user.UserID+"> ")
		if !ok {
			return false
		}

		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case "f":
			a.renderFeed(feed)
		case "p":
			a.renderProfile(user, own)
		case "c":
			if a.composeView(ctx, user.UserID) {
				feed = a.fetchFeed(ctx, user.UserID)
				own = a.fetchOwnPosts(ctx, user.UserID)
			}
		case "w":
			if a.followView(ctx, user.UserID, strings.TrimSpace(arg)) {
				feed = a.fetchFeed(ctx, user.UserID)
			}
		case "s":
			if a.shareView(ctx, user.UserID, strings.TrimSpace(arg)) {
				feed = a.fetchFeed(ctx, user.UserID)
				own = a.fetchOwnPosts(ctx, user.UserID)
			}
		case "t":
			a.hashtagView(ctx, strings.TrimSpace(arg))
		case "x":
			a.translateView(ctx, strings.TrimSpace(arg))
		case "r":
			feed = a.fetchFeed(ctx, user.UserID)
			own = a.fetchOwnPosts(ctx, user.UserID)
			fmt.Fprintln(a.out, "Refreshed.")
		case "l":
			if err := a.session.Logout(); err != nil {
				logg.Error("app/dashboard", "Failed to clear stored session", err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return true
		case "q":
			return false
		default:
			fmt.Fprintln(a.out, "Unknown command.")
		}
	}
}

// fetchFeed never fails the view: on error it logs, shows the message and
// leaves an empty list, exactly like a failed fetch in the feed tab.
func (a *App) fetchFeed(ctx context.Context, userID string) []models.Post {
	posts, err := a.client.Feed(ctx, userID, a.cfg.FeedLimit)
	if err != nil {
		logg.Error("app/dashboard", "Failed to fetch feed", err)
		fmt.Fprintln(a.out, "Could not load feed: "+errorMessage(err))
		return []models.Post{}
	}
	return posts
}

func (a *App) fetchOwnPosts(ctx context.Context, userID string) []models.Post {
	posts, err := a.client.UserPosts(ctx, userID, a.cfg.FeedLimit)
	if err != nil {
		logg.Error("app/dashboard", "Failed to fetch own posts", err)
		fmt.Fprintln(a.out, "Could not load your posts: "+errorMessage(err))
		return []models.Post{}
	}
	return posts
}

func (a *App) renderFeed(posts []models.Post) {
	fmt.Fprintln(a.out, "\n== Your Feed ==")
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "Your feed is empty. Follow some users to see their posts here!")
		return
	}
	for _, p := range posts {
		renderPost(a.out, p)
	}
}

func (a *App) renderProfile(user *models.User, own []models.Post) {
	fmt.Fprintf(a.out, "\n== Profile: %s (@%s) ==\n", user.Name, user.UserID)
	if len(own) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return
	}
	for _, p := range own {
		renderPost(a.out, p)
	}
}

// followView sends a follow request for followee. Success is detected via
// the backend's message convention. Returns true when the feed is worth
// re-fetching.
func (a *App) followView(ctx context.Context, userID, followee string) bool {
	if followee == "" {
		var ok bool
		followee, ok = a.promptRequired("Follow who? ")
		if !ok {
			return false
		}
	}

	resp, err := a.client.Follow(ctx, userID, followee)
	if err != nil {
		logg.Error("app/dashboard", "Follow request failed", err)
		fmt.Fprintln(a.out, "Failed to follow user: "+errorMessage(err))
		return false
	}
	if !strings.Contains(resp.Message, "SUCCESSFULLY") {
		fmt.Fprintln(a.out, "Failed to follow user. Please try again.")
		return false
	}

	fmt.Fprintf(a.out, "Successfully followed @%s\n", followee)
	return true
}

func (a *App) shareView(ctx context.Context, userID, arg string) bool {
	postID, ok := a.parsePostID(arg, "Share which post ID? ")
	if !ok {
		return false
	}

	resp, err := a.client.Share(ctx, userID, postID)
	if err != nil {
		logg.Error("app/dashboard", "Share request failed", err)
		fmt.Fprintln(a.out, "Failed to share post: "+errorMessage(err))
		return false
	}
	if !strings.Contains(resp.Message, "SUCCESSFULLY") {
		fmt.Fprintln(a.out, "Failed to share post. Please try again.")
		return false
	}

	fmt.Fprintln(a.out, "Post shared.")
	return true
}

func (a *App) hashtagView(ctx context.Context, arg string) {
	postID, ok := a.parsePostID(arg, "Hashtags for which post ID? ")
	if !ok {
		return
	}

	resp, err := a.client.Hashtags(ctx, models.HashtagRequest{PostID: postID})
	if err != nil {
		logg.Error("app/dashboard", "Hashtag request failed", err)
		fmt.Fprintln(a.out, "Failed to generate hashtags: "+errorMessage(err))
		return
	}
	if len(resp.Hashtags) == 0 {
		fmt.Fprintln(a.out, "No hashtags generated.")
		return
	}
	fmt.Fprintln(a.out, strings.Join(resp.Hashtags, " "))
}

func (a *App) translateView(ctx context.Context, arg string) {
	idArg, lang, _ := strings.Cut(arg, " ")
	postID, ok := a.parsePostID(strings.TrimSpace(idArg), "Translate which post ID? ")
	if !ok {
		return
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang, ok = a.promptRequired("Target language: ")
		if !ok {
			return
		}
	}

	resp, err := a.client.Translate(ctx, models.HashtagRequest{PostID: postID, Language: lang})
	if err != nil {
		logg.Error("app/dashboard", "Translate request failed", err)
		fmt.Fprintln(a.out, "Failed to translate post: "+errorMessage(err))
		return
	}
	fmt.Fprintln(a.out, resp.Hashtags)
}

func (a *App) parsePostID(arg, label string) (int, bool) {
	if arg == "" {
		var ok bool
		arg, ok = a.promptRequired(label)
		if !ok {
			return 0, false
		}
	}
	postID, err := strconv.Atoi(arg)
	if err != nil || postID <= 0 {
		fmt.Fprintln(a.out, "Post ID must be a positive number.")
		return 0, false
	}
	return postID, true
}
