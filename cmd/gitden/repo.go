package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gitden "github.com/gitden/gitden-go"
	"github.com/gitden/gitden-go/repoview"
)

func newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect and operate on repositories",
	}
	cmd.AddCommand(
		newRepoViewCmd(),
		newRepoCreateCmd(),
		newRepoCommitCmd(),
		newRepoPushCmd(),
		newRepoPullCmd(),
		newRepoVisibilityCmd(),
		newRepoDescribeCmd(),
		newRepoDeleteCmd(),
		newRepoStarCmd(),
		newRepoIssuesCmd(),
	)
	return cmd
}

// openRepoView loads a repository view the way the browser page does, so the
// CLI inherits the same permission gating and error surfacing.
func openRepoView(c *gitden.Client, repoID string) (*repoview.View, error) {
	v := repoview.New(c, repoview.NavigatorFunc(func(path string) {
		fmt.Fprintln(os.Stderr, "->", path)
	}), repoID)
	if err := v.Load(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func newRepoViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <repo-id>",
		Short: "Show a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			repo, ok := v.Snapshot()
			if !ok {
				return fmt.Errorf("repository %s not loaded", args[0])
			}
			vis := "private"
			if repo.Visibility {
				vis = "public"
			}
			star := " "
			if v.IsStarred() {
				star = "*"
			}
			fmt.Printf("[%s] %s/%s (%s)\n", star, repo.Owner.Username, repo.Name, vis)
			if repo.Description != "" {
				fmt.Println(repo.Description)
			}
			fmt.Printf("%d commits\n", len(repo.Content))
			for i := len(repo.Content) - 1; i >= 0; i-- {
				cm := repo.Content[i]
				fmt.Printf("  %s  %s\n", cm.CreatedAt.Format("2006-01-02 15:04"), cm.Message)
			}
			return nil
		},
	}
}

func newRepoCreateCmd() *cobra.Command {
	var description string
	var public bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			id, err := c.CreateRepository(cmd.Context(), gitden.CreateRepositoryRequest{
				Name:        args[0],
				Description: description,
				Visibility:  public,
			})
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "repository description")
	cmd.Flags().BoolVar(&public, "public", false, "make the repository public")
	return cmd
}

func newRepoCommitCmd() *cobra.Command {
	var message, content string
	cmd := &cobra.Command{
		Use:   "commit <repo-id>",
		Short: "Add a commit to a repository you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if err := v.CreateCommit(message, content); err != nil {
				return err
			}
			fmt.Println("committed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&content, "content", "", "file content")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newRepoPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <repo-id>",
		Short: "Trigger a push on a repository you own",
		Args:  cobra.ExactArgs(1),
		RunE:  runRepoTrigger((*repoview.View).Push),
	}
}

func newRepoPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <repo-id>",
		Short: "Trigger a pull on a repository you own",
		Args:  cobra.ExactArgs(1),
		RunE:  runRepoTrigger((*repoview.View).Pull),
	}
}

func runRepoTrigger(op func(*repoview.View) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		v, err := openRepoView(c, args[0])
		if err != nil {
			return err
		}
		defer v.Close()
		if err := op(v); err != nil {
			return err
		}
		fmt.Println(v.LastMessage())
		return nil
	}
}

func newRepoVisibilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "visibility <repo-id>",
		Short: "Toggle a repository between public and private",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if err := v.ToggleVisibility(); err != nil {
				return err
			}
			if repo, ok := v.Snapshot(); ok && repo.Visibility {
				fmt.Println("now public")
			} else {
				fmt.Println("now private")
			}
			return nil
		},
	}
}

func newRepoDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <repo-id> <description>",
		Short: "Update the description of a repository you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if err := v.StartEditingDescription(); err != nil {
				return err
			}
			v.SetDraft(args[1])
			if err := v.SaveDescription(); err != nil {
				return err
			}
			fmt.Println("description updated")
			return nil
		},
	}
}

func newRepoDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <repo-id>",
		Short: "Delete a repository you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			confirm := func() bool {
				if yes {
					return true
				}
				name := args[0]
				if repo, ok := v.Snapshot(); ok {
					name = repo.Name
				}
				fmt.Fprintf(os.Stderr, "delete %s? [y/N] ", name)
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				return strings.EqualFold(strings.TrimSpace(line), "y")
			}
			if err := v.Delete(confirm); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newRepoStarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "star <repo-id>",
		Short: "Star or unstar a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			v, err := openRepoView(c, args[0])
			if err != nil {
				return err
			}
			defer v.Close()
			if err := v.ToggleStar(); err != nil {
				return err
			}
			if msg := v.ErrorMessage(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			if v.IsStarred() {
				fmt.Println("starred")
			} else {
				fmt.Println("unstarred")
			}
			return nil
		},
	}
}

func newRepoIssuesCmd() *cobra.Command {
	var create string
	cmd := &cobra.Command{
		Use:   "issues <repo-id>",
		Short: "List issues, or open one with --create",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			iv := repoview.NewIssues(c, args[0])
			defer iv.Close()
			if create != "" {
				if err := iv.Create(create); err != nil {
					return err
				}
				fmt.Println("issue created")
			} else if err := iv.Load(); err != nil {
				return err
			}
			if msg := iv.ErrorMessage(); msg != "" {
				return fmt.Errorf("%s", msg)
			}
			for _, is := range iv.List() {
				fmt.Printf("%s  %s\n", is.CreatedAt.Format("2006-01-02"), is.Content)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&create, "create", "", "open a new issue with this text")
	return cmd
}
