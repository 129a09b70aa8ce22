package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/VitaminP8/campusconnect/internal/config"
	"github.com/VitaminP8/campusconnect/internal/storage/memory"
	"github.com/VitaminP8/campusconnect/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var pendingOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create PostgreSQL tables and load the initial data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := postgres.InitDB(config.DSN()); err != nil {
			return err
		}
		defer postgres.CloseDB()

		if err := postgres.Migrate(); err != nil {
			return err
		}
		users := postgres.NewUserPostgresStorage(config.BcryptCost())
		return postgres.Seed(users, memory.SeedUsers(), memory.SeedPosts(), memory.SeedPendingIndexNumbers, memory.SeedPassword)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the user directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		// JWT здесь не нужен, поэтому без config.Load
		a, err := newApp(storageType, config.Config{BcryptCost: config.BcryptCost()}, true)
		if err != nil {
			return err
		}
		defer a.Close()

		return printUsers(a, pendingOnly)
	},
}

func init() {
	usersCmd.Flags().BoolVar(&pendingOnly, "pending", false, "Показать только номера зачеток без пароля")
}

func printUsers(a *app, pending bool) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if pending {
		indexNumbers, err := a.resolver.UserStore.PendingIndexNumbers()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "INDEX NUMBER")
		for _, idx := range indexNumbers {
			fmt.Fprintln(w, idx)
		}
		return nil
	}

	users, err := a.resolver.UserStore.GetAllUsers()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}
