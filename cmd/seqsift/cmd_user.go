package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/security"
	"github.com/codewithboateng/seqsift/internal/storage"
)

var (
	userName     string
	userPassword string
	userRole     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an API user",
	Long: `Creates a user for the HTTP API. The serve command has no users out of
the box; create at least one admin before first use.`,
	RunE: runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "username", "", "Username (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password (or set SEQSIFT_PASSWORD)")
	userAddCmd.Flags().StringVar(&userRole, "role", storage.RoleViewer, "Role: admin or viewer")
	_ = userAddCmd.MarkFlagRequired("username")
	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	loadConfig()

	pw := userPassword
	if pw == "" {
		pw = os.Getenv("SEQSIFT_PASSWORD")
	}
	if pw == "" {
		return fmt.Errorf("user add: --password or SEQSIFT_PASSWORD is required")
	}
	if userRole != storage.RoleAdmin && userRole != storage.RoleViewer {
		return fmt.Errorf("user add: role must be %q or %q", storage.RoleAdmin, storage.RoleViewer)
	}

	hash, err := security.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.CreateUser(userName, hash, userRole)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Printf("User added\n  ID: %d\n  Username: %s\n  Role: %s\n", id, userName, userRole)
	return nil
}
