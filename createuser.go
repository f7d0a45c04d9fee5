package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"booktracker/library"
)

var createUserDBPath string

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Register an account from the command line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])

		password, err := readPassword(fmt.Sprintf("Enter password for %s: ", username))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if password == "" {
			return fmt.Errorf("password cannot be empty")
		}

		db, err := library.NewDatabase(createUserDBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		id, err := db.CreateUser(username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %q with ID %d\n", username, id)
		return nil
	},
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func init() {
	createUserCmd.Flags().StringVar(&createUserDBPath, "db", defaultDBPath(), "path to the SQLite database")
	rootCmd.AddCommand(createUserCmd)
}
