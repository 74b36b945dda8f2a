package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitden/gitden-go/dashboard"
	"github.com/gitden/gitden-go/explore"
	"github.com/gitden/gitden-go/heatmap"
	"github.com/gitden/gitden-go/profileview"
)

func newDashboardCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your repositories, public repositories and upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v := dashboard.New(c)
			defer v.Close()
			v.Load()

			if v.LoggedIn() {
				fmt.Println("your repositories:")
				own := v.OwnRepos()
				switch {
				case own.ErrMsg != "":
					fmt.Println(" ", own.ErrMsg)
				case filter != "":
					for _, r := range v.FilterOwn(filter) {
						printRepoLine(r.ID, r.Name, r.Visibility)
					}
				default:
					for _, r := range own.Repos {
						printRepoLine(r.ID, r.Name, r.Visibility)
					}
				}
			}

			fmt.Println("public repositories:")
			pub := v.PublicRepos()
			if pub.ErrMsg != "" {
				fmt.Println(" ", pub.ErrMsg)
			}
			for _, r := range pub.Repos {
				fmt.Printf("  %s  %s/%s\n", r.ID, r.Owner.Username, r.Name)
			}

			ev := v.Events()
			if ev.ErrMsg != "" {
				fmt.Println("events:", ev.ErrMsg)
			} else if len(ev.Events) > 0 {
				fmt.Println("upcoming events:")
				for _, e := range ev.Events {
					fmt.Printf("  %s  %s\n", e.EventDate.Format("2006-01-02"), e.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "filter your repositories by name")
	return cmd
}

func printRepoLine(id, name string, public bool) {
	vis := "private"
	if public {
		vis = "public"
	}
	fmt.Printf("  %s  %s (%s)\n", id, name, vis)
}

func newProfileCmd() *cobra.Command {
	var follow, starred bool
	cmd := &cobra.Command{
		Use:   "profile [user-id]",
		Short: "Show a profile; defaults to your own",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			subject := ""
			if len(args) == 1 {
				subject = args[0]
			}
			v := profileview.New(c, subject)
			defer v.Close()
			if err := v.Load(); err != nil {
				return err
			}

			if follow {
				if err := v.ToggleFollow(); err != nil {
					return err
				}
				if msg := v.ErrorMessage(); msg != "" {
					return fmt.Errorf("%s", msg)
				}
			}

			p, ok := v.Profile()
			if !ok {
				return fmt.Errorf("profile not loaded")
			}
			fmt.Printf("%s  (%d followers, %d following)\n", p.Username, p.FollowerCount, p.FollowingCount)
			if !v.IsOwnProfile() {
				if v.IsFollowing() {
					fmt.Println("you follow this user")
				} else {
					fmt.Println("you do not follow this user")
				}
			}
			for _, r := range p.Repositories {
				printRepoLine(r.ID, r.Name, r.Visibility)
			}

			if starred {
				if err := v.OpenStarredTab(); err != nil {
					return err
				}
				repos, fetched := v.StarredRepos()
				if !fetched {
					return fmt.Errorf("starred repositories not loaded")
				}
				fmt.Println("starred:")
				for _, r := range repos {
					fmt.Printf("  %s  %s/%s\n", r.ID, r.Owner.Username, r.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "toggle following this user")
	cmd.Flags().BoolVar(&starred, "starred", false, "also list starred repositories")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search users and public repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v := explore.NewSearch(c, args[0])
			defer v.Close()
			if err := v.Load(); err != nil {
				return err
			}
			res := v.Results()
			for _, u := range res.Users {
				fmt.Printf("user  %s  %s\n", u.ID, u.Username)
			}
			for _, r := range res.Repositories {
				fmt.Printf("repo  %s  %s/%s\n", r.ID, r.Owner.Username, r.Name)
			}
			if v.TotalResults() == 0 {
				fmt.Println("no results")
			}
			return nil
		},
	}
}

func newContributionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contributions <user-id>",
		Short: "Render a user's contribution heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			points, err := c.Contributions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			grid, err := heatmap.Layout(points)
			if err != nil {
				return err
			}
			renderGrid(grid)
			fmt.Printf("%d contributions\n", grid.Total)
			return nil
		},
	}
}

// renderGrid prints one row per weekday, one column per week, the same
// orientation the web heatmap uses.
func renderGrid(grid heatmap.Grid) {
	glyphs := []string{" ", ".", "o", "O", "@"}
	for day := 0; day < 7; day++ {
		var b strings.Builder
		for _, w := range grid.Weeks {
			cell := w[day]
			switch {
			case !cell.InRange:
				b.WriteString(" ")
			case cell.Count == 0:
				b.WriteString(glyphs[1])
			case cell.Count < 3:
				b.WriteString(glyphs[2])
			case cell.Count < 6:
				b.WriteString(glyphs[3])
			default:
				b.WriteString(glyphs[4])
			}
		}
		fmt.Printf("%s %s\n", heatmap.WeekLabels[day], b.String())
	}
}
