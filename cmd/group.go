package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/models"
)

var (
	// group create flags
	groupTitle       string
	groupSlug        string
	groupDescription string
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
	Long: `Groups are created by administrators only. Posts may optionally belong to one.

Subcommands:
  create  - Create a group
  list    - List groups
  delete  - Delete a group, its posts stay without a group`,
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Long: `Create a group.

Examples:
  yatube group create --title "Лев Толстой" --slug tolstoy --description "Всё о Толстом"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		form := &forms.GroupForm{Title: groupTitle, Slug: groupSlug, Description: groupDescription}
		if errs := form.Validate(); errs != nil {
			return errs
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		g := &models.Group{Title: form.Title, Slug: form.Slug, Description: form.Description}
		if err := store.CreateGroup(cmd.Context(), g); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return fmt.Errorf("group with slug %q already exists", form.Slug)
			}
			return err
		}
		logging.Info().Int("id", g.ID).Str("slug", g.Slug).Msg("group created")
		fmt.Fprintf(cmd.OutOrStdout(), "created group %d /group/%s/\n", g.ID, g.Slug)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		groups, err := store.ListGroups(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE")
		for _, g := range groups {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return w.Flush()
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		g, err := store.GroupBySlug(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("group %q not found", args[0])
			}
			return err
		}
		if err := store.DeleteGroup(cmd.Context(), g.ID); err != nil {
			return err
		}
		logging.Info().Int("id", g.ID).Str("slug", g.Slug).Msg("group deleted")
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "Group title (required)")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "URL slug: letters, digits, - and _ (required)")
	groupCreateCmd.Flags().StringVar(&groupDescription, "description", "", "Group description (required)")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupCmd.AddCommand(groupCreateCmd, groupListCmd, groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}
