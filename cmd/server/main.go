package main

import (
	"fmt"
	"os"

	"github.com/VitaminP8/campusconnect/internal/config"
	"github.com/spf13/cobra"
)

var storageType string

var rootCmd = &cobra.Command{
	Use:   "campusconnect",
	Short: "Campus Connect content and authorization service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// загружаем .env из нашего config.go
		config.LoadEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageType, "storage", "memory", "Тип хранилища: memory или postgres")
	rootCmd.AddCommand(serveCmd, migrateCmd, usersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
