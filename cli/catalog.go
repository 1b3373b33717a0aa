package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/latentlab/lcspec/catalog"
)

// NewCatalogCmd creates the "catalog" subcommand group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage a SQLite catalog of saved specifications",
	}

	cmd.PersistentFlags().String("db", "lcspec.db", "Path to the catalog database")

	cmd.AddCommand(newCatalogListCmd())
	cmd.AddCommand(newCatalogShowCmd())
	cmd.AddCommand(newCatalogDeleteCmd())

	return cmd
}

func openCatalog(cmd *cobra.Command) (catalog.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	store, err := catalog.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, exitError(exitStore, "opening catalog: %s", err)
	}
	return store, nil
}

func newCatalogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved specifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return exitError(exitStore, "listing catalog: %s", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-36s  %-12s  %s\n", "ID", "FINGERPRINT", "CREATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%-36s  %-12s  %s\n",
					e.ID, e.Fingerprint[:12], e.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "Maximum number of entries (0 = all)")
	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id-or-fingerprint>",
		Short: "Print a saved specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := lookupEntry(cmd, store, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "pathlist":
				fmt.Fprint(w, entry.PathList)
			case "equations":
				fmt.Fprint(w, entry.Equations)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(entry)
			default:
				return exitError(exitValidation, "unknown format %q (want pathlist, equations, or json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "pathlist", "Output format: pathlist | equations | json")
	return cmd
}

func newCatalogDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCatalog(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return exitError(exitStore, "no entry with ID %s", args[0])
				}
				return exitError(exitStore, "deleting entry: %s", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "deleted %s\n", args[0])
			return nil
		},
	}
}

// lookupEntry resolves an exact entry ID first, then falls back to treating
// the argument as a configuration fingerprint (full or 12-char prefix via
// full match only).
func lookupEntry(cmd *cobra.Command, store catalog.Store, key string) (catalog.Entry, error) {
	entry, err := store.Get(cmd.Context(), key)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return catalog.Entry{}, exitError(exitStore, "reading catalog: %s", err)
	}

	// Not an ID; try as fingerprint. Accept a unique prefix by scanning.
	if entry, err = store.GetByFingerprint(cmd.Context(), key); err == nil {
		return entry, nil
	}
	entries, listErr := store.List(cmd.Context(), 0)
	if listErr != nil {
		return catalog.Entry{}, exitError(exitStore, "reading catalog: %s", listErr)
	}
	var matches []catalog.Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Fingerprint, key) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return catalog.Entry{}, exitError(exitStore, "no entry matching %q", key)
	case 1:
		return matches[0], nil
	default:
		return catalog.Entry{}, exitError(exitStore, "fingerprint prefix %q is ambiguous (%d matches)", key, len(matches))
	}
}
