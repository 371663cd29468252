package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"comic-collector/library"
)

func (a *app) comicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comics",
		Aliases: []string{"comic"},
		Short:   "List, search, add and lend comics",
	}
	cmd.AddCommand(a.comicsListCmd(), a.comicsSearchCmd(), a.comicsAddCmd(), a.comicsLendCmd())
	return cmd
}

func (a *app) comicsListCmd() *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every comic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := library.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			comics, err := a.mgr.ListComics(key)
			if err != nil {
				return err
			}
			return a.render(comics)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "title", "sort by title, author or id")
	return cmd
}

func (a *app) comicsSearchCmd() *cobra.Command {
	var by, dbPath string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search comics by id, title or author",
		Long: `Search comics by id, title or author.

With --db the query matches title or author in a SQLite export instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath != "" {
				found, err := a.mgr.SearchMirror(dbPath, args[0])
				if err != nil {
					return err
				}
				return a.render(found)
			}
			key, err := library.ParseSortKey(by)
			if err != nil {
				return err
			}
			found, err := a.mgr.SearchComics(key, args[0])
			if err != nil {
				return err
			}
			return a.render(found)
		},
	}
	cmd.Flags().StringVar(&by, "by", "title", "match on id, title or author")
	cmd.Flags().StringVar(&dbPath, "db", "", "search a SQLite export instead of the catalog files")
	cmd.MarkFlagsMutuallyExclusive("by", "db")
	return cmd
}

func (a *app) comicsAddCmd() *cobra.Command {
	var title, author, assign string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a comic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.mgr.AddComic(title, author, assign)
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added comic ID %s.\n", c.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "comic title")
	cmd.Flags().StringVar(&author, "author", "", "comic author")
	cmd.Flags().StringVar(&assign, "assign", "", "email of a registered user to lend it to")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func (a *app) comicsLendCmd() *cobra.Command {
	var email, title, id string
	cmd := &cobra.Command{
		Use:   "lend",
		Short: "Lend a comic to a registered user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if id != "" {
				err = a.mgr.LendComicByID(id, email)
			} else {
				err = a.mgr.LendComic(title, email)
			}
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Comic lent.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the borrowing user")
	cmd.Flags().StringVar(&title, "title", "", "title of the comic")
	cmd.Flags().StringVar(&id, "id", "", "id of the comic")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsOneRequired("title", "id")
	cmd.MarkFlagsMutuallyExclusive("title", "id")
	return cmd
}

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "List and register users",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.render(a.mgr.ListUsers())
		},
	}

	var first, last, email, phone string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.mgr.AddUser(first, last, email, phone)
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added user ID %s.\n", u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&first, "first", "", "first name")
	add.Flags().StringVar(&last, "last", "", "last name")
	add.Flags().StringVar(&email, "email", "", "email address")
	add.Flags().StringVar(&phone, "phone", "", "phone number, digits only")
	for _, f := range []string{"first", "last", "email", "phone"} {
		_ = add.MarkFlagRequired(f)
	}

	cmd.AddCommand(list, add)
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the catalog into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.dbPath(dbPath)
			if err := a.mgr.ExportSQLite(path); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported catalog to %s.\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default from config)")
	return cmd
}

func (a *app) restoreCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the catalog files from a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.dbPath(dbPath)
			if err := a.mgr.RestoreSQLite(path); err != nil {
				if errors.Is(err, library.ErrNotFound) {
					return fmt.Errorf("no catalog database at %s", path)
				}
				return err
			}
			fmt.Fprintf(a.out, "Restored catalog from %s.\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default from config)")
	return cmd
}

func (a *app) dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.DBFile()
}
