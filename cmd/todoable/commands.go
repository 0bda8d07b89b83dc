package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/todoable/internal/app"
	"github.com/five82/todoable/internal/todoable"
)

// result is the JSON shape of commands that only report success.
type result struct {
	OK     bool   `json:"ok"`
	ListID string `json:"list_id,omitempty"`
	ItemID string `json:"item_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// emit writes v as JSON when --json is set, otherwise calls text.
func (o *rootOptions) emit(w io.Writer, v any, text func(w io.Writer) error) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func newListsCmd(opts *rootOptions) *cobra.Command {
	var withItems bool
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show every list",
		Long: `Show every list of the authenticated user.

With --items each list is fetched in full and the open and finished item
counts are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			var lists []todoable.List
			if withItems {
				lists, err = app.FetchAll(cmd.Context(), client)
			} else {
				lists, err = client.Lists(cmd.Context())
			}
			if err != nil {
				return err
			}

			return opts.emit(cmd.OutOrStdout(), lists, func(w io.Writer) error {
				if len(lists) == 0 {
					_, err := fmt.Fprintln(w, "No lists.")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				if withItems {
					fmt.Fprintln(tw, "ID\tNAME\tOPEN\tDONE")
					for _, l := range lists {
						open := len(l.Pending())
						fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", l.ID, l.Name, open, len(l.Items)-open)
					}
				} else {
					fmt.Fprintln(tw, "ID\tNAME")
					for _, l := range lists {
						fmt.Fprintf(tw, "%s\t%s\n", l.ID, l.Name)
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&withItems, "items", false, "Fetch items and show counts")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.FindList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), list, func(w io.Writer) error {
				fmt.Fprintf(w, "%s (%s)\n", list.Name, list.ID)
				if len(list.Items) == 0 {
					_, err := fmt.Fprintln(w, "  no items")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, item := range list.Items {
					mark := "[ ]"
					if item.Done() {
						mark = "[x]"
					}
					fmt.Fprintf(tw, "  %s %s\t%s\n", mark, item.Name, item.ID)
				}
				return tw.Flush()
			})
		},
	}
}

func newCreateListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-list <name...>",
		Short: "Create a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			list, err := client.CreateList(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), list, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created list %q (%s)\n", list.Name, list.ID)
				return err
			})
		},
	}
}

func newRenameListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-list <list-id> <name...>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			ok, err := client.RenameList(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			res := result{OK: ok, ListID: args[0], Name: name}
			return opts.emit(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Renamed list %s to %q\n", args[0], name)
				return err
			})
		},
	}
}

func newDeleteListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-list <list-id>",
		Short: "Delete a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := client.DeleteList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), result{OK: ok, ListID: args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted list %s\n", args[0])
				return err
			})
		},
	}
}

func newAddItemCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-item <list-id> <name...>",
		Short: "Add an item to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			item, err := client.CreateItem(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), item, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added %q (%s)\n", item.Name, item.ID)
				return err
			})
		},
	}
}

func newFinishItemCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finish-item <list-id> <item-id>",
		Short: "Mark an item as done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := client.FinishItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), result{OK: ok, ListID: args[0], ItemID: args[1]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Finished item %s\n", args[1])
				return err
			})
		},
	}
}

func newDeleteItemCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-item <list-id> <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := client.DeleteItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), result{OK: ok, ListID: args[0], ItemID: args[1]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted item %s\n", args[1])
				return err
			})
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	var (
		prefsPath   string
		pollSeconds int
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: opts.configPath,
				PrefsPath:  prefsPath,
				PollEvery:  pollSeconds,
			})
		},
	}
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "Preferences file (default ~/.config/todoable/prefs.toml)")
	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "Refresh interval in seconds (default from config)")
	return cmd
}
