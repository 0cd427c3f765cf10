package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"wbprivacy/pkg/auth"
	"wbprivacy/pkg/ui"
	"wbprivacy/pkg/weibo"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored Weibo sessions",
	Long: `Manage stored Weibo session cookies.

Cookies are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (WBPRIVACY_COOKIE, read-only)

Never share your cookie or config files!`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a Weibo session cookie securely",
	Long: `Store a Weibo session cookie in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (if not provided)
  - Your numeric Weibo user id (or profile URL)
  - The full cookie header from a logged-in browser session

The cookie must contain the XSRF-TOKEN field; it is checked before
anything is stored.`,
	Example: `  # Interactive login
  wbprivacy auth login

  # Login under a name
  wbprivacy auth login personal`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAuthLogin,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored session",
	Long: `Remove a stored Weibo session.

If no name is provided, you will be shown the stored accounts to choose
from. You can also remove all accounts at once.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAuthLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Long:  `List all stored Weibo accounts with their cookies masked.`,
	Run:   runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(exitSetup)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowCookieExtractionGuide()

	fmt.Print("Ready to enter your cookie? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'wbprivacy auth login' when you're ready.")
		return
	}

	fmt.Println()

	if name == "" {
		fmt.Print("Account name (e.g. personal): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read account name", err.Error())
			os.Exit(exitSetup)
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		ui.PrintError("Account name is required")
		os.Exit(exitSetup)
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount %q already exists. Update it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Weibo user id (or profile URL): ")
	rawID, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read user id", err.Error())
		os.Exit(exitSetup)
	}
	userID := weibo.SanitizeUserID(rawID)
	if !weibo.IsValidUserID(userID) {
		ui.PrintError("That does not look like a Weibo user id", rawID)
		fmt.Println("The id is the number in your profile URL: https://weibo.com/u/<id>")
		os.Exit(exitSetup)
	}

	// The cookie is long and secret, so read it without echo. Validation
	// happens up front: a cookie without the XSRF-TOKEN field cannot
	// authorize visibility changes.
	var cookie string
	for {
		fmt.Print("\nCookie (input is hidden): ")
		cookie, err = readSecret()
		if err != nil {
			ui.PrintError("Failed to read cookie", err.Error())
			os.Exit(exitSetup)
		}

		if _, err := auth.DeriveSession(cookie); err != nil {
			fmt.Printf("\n%v\n", err)
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(exitSetup)
			}
			continue
		}
		break
	}

	account := &auth.Account{
		Name:   name,
		UserID: userID,
		Cookie: cookie,
	}

	fmt.Println("\nStoring credentials securely...")
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(exitSetup)
	}

	ui.PrintSuccess("Account saved: " + name)

	fmt.Println("\nYour cookie is stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("  - System keychain (primary)")
	}
	fmt.Println("  - Encrypted file (fallback)")

	fmt.Println("\nNext steps:")
	fmt.Println("  wbprivacy list                  # check what the tool sees")
	fmt.Println("  wbprivacy hide --dry-run        # preview a run")
	fmt.Printf("  wbprivacy hide --account %s     # run with this account\n", name)
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(exitSetup)
	}

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(exitSetup)
		}
		ui.PrintSuccess("Account removed: " + args[0])
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintWarning("No stored accounts found")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account %q? (y/N): ", account.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
		if err := manager.Delete(account.Name); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(exitSetup)
		}
		ui.PrintSuccess("Account removed: " + account.Name)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}
		if err := manager.DeleteAll(); err != nil {
			ui.PrintError("Failed to remove all accounts", err.Error())
			os.Exit(exitSetup)
		}
		ui.PrintSuccess("All accounts removed")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Name); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(exitSetup)
		}
		ui.PrintSuccess("Account removed: " + account.Name)
	default:
		ui.PrintError("Invalid choice")
		os.Exit(exitSetup)
	}
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(exitSetup)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(exitSetup)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'wbprivacy auth login' to add one")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   User ID: %s\n", sanitized.UserID)
		fmt.Printf("   Cookie: %s\n", sanitized.Cookie)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readSecret reads a line from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback for piped input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
