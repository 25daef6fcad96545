package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"geofetch/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials",
	Long: `Manage stored provider credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store provider credentials securely",
	Long: `Store provider credentials in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (if not provided)
  - The consumer key issued for your application
  - The access token issued for your application`,
	Example: `  # Interactive login
  geofetch auth login

  # Login with account name
  geofetch auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with sanitized credential information.`,
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		fmt.Print("Account name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		return fmt.Errorf("an account name is required")
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Account %q already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("\nEnter your credentials (they will be hidden as you type):")

	fmt.Print("Consumer key: ")
	key, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read consumer key: %w", err)
	}

	fmt.Print("Access token: ")
	token, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}

	account := &auth.Account{
		Name:   name,
		Source: "twitter",
		Credentials: auth.Credentials{
			ConsumerKey: key,
			AccessToken: token,
		},
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("\nCredentials stored for account %q.\n", name)
	fmt.Println("\nUse them with:")
	fmt.Printf("  geofetch fetch --keyword <term> --account %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			fmt.Println("No stored accounts found.")
			return nil
		}

		fmt.Println("Select account to remove:")
		for i, account := range accounts {
			fmt.Printf("  %d. %s\n", i+1, account.Name)
		}
		fmt.Print("Choice: ")

		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		var choice int
		fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)
		if choice < 1 || choice > len(accounts) {
			return fmt.Errorf("invalid choice")
		}
		name = accounts[choice-1].Name
	}

	if err := manager.Delete(name); err != nil {
		return fmt.Errorf("failed to remove account %q: %w", name, err)
	}
	fmt.Printf("Removed account %q.\n", name)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		fmt.Println("No stored accounts found.")
		return nil
	}

	for i, account := range accounts {
		fmt.Printf("%d. Name: %s\n", i+1, account.Name)
		fmt.Printf("   Source: %s\n", account.Source)
		fmt.Printf("   Consumer Key: %s\n", maskSecret(account.Credentials.ConsumerKey))
		fmt.Printf("   Access Token: %s\n", maskSecret(account.Credentials.AccessToken))
		fmt.Printf("   Last Modified: %s\n", account.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
	return nil
}

// readSecret reads a credential from stdin without echoing.
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback for non-terminal stdin
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// maskSecret hides the middle of a credential, keeping enough of each end to
// recognize it.
func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
