package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// parseID interprets the single argument of join/posts/post as a community id.
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		fmt.Println(usage)
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println(usage)
		return 0, fmt.Errorf("bad id %q: %w", args[0], err)
	}
	return id, nil
}

// Communities lists all communities.
func (a *App) Communities(ctx context.Context) error {
	list, err := a.communities.List(ctx)
	if err != nil {
		fmt.Printf("Could not list communities: %v\n", err)
		return err
	}
	if len(list) == 0 {
		fmt.Println("No communities yet.")
		return nil
	}
	for _, c := range list {
		fmt.Printf("%6d  %-24s %s\n", c.ID, c.Name, c.Privacy)
	}
	return nil
}

// Join joins the community with the given id.
func (a *App) Join(ctx context.Context, args []string) error {
	id, err := parseID(args, "Usage: join <community-id>")
	if err != nil {
		return err
	}
	if err := a.communities.Join(ctx, id); err != nil {
		fmt.Printf("Could not join: %v\n", err)
		return err
	}
	fmt.Println("Join request sent.")
	return nil
}

// Posts lists the posts of a community.
func (a *App) Posts(ctx context.Context, args []string) error {
	id, err := parseID(args, "Usage: posts <community-id>")
	if err != nil {
		return err
	}
	posts, err := a.communities.Posts(ctx, id)
	if err != nil {
		fmt.Printf("Could not list posts: %v\n", err)
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No posts yet.")
		return nil
	}
	for _, p := range posts {
		pin := " "
		if p.IsPinned {
			pin = "*"
		}
		fmt.Printf("%s %6d  %s\n", pin, p.ID, p.Title)
	}
	return nil
}

// Post interactively creates a post in a community.
func (a *App) Post(ctx context.Context, args []string) error {
	id, err := parseID(args, "Usage: post <community-id>")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Body", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.communities.CreatePost(ctx, id, title, content)
	if err != nil {
		fmt.Printf("Could not create the post: %v\n", err)
		return err
	}
	fmt.Printf("Posted #%d.\n", p.ID)
	return nil
}

// Verifications lists accounts awaiting the admin verification decision.
func (a *App) Verifications(ctx context.Context) error {
	users, err := a.admin.PendingVerifications(ctx)
	if err != nil {
		fmt.Printf("Could not load the verification queue: %v\n", err)
		return err
	}
	if len(users) == 0 {
		fmt.Println("Nothing waiting for review.")
		return nil
	}
	for _, u := range users {
		fmt.Printf("%6d  %-20s %s\n", u.ID, u.Username, u.Email)
	}
	return nil
}
