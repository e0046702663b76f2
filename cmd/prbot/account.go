package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/pkg/crypto"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage external accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a new external account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		keys, err := crypto.GenerateKeyPair()
		if err != nil {
			fatal(err)
		}

		account := &model.ExternalAccount{
			Username:   args[0],
			PublicKey:  keys.PublicKey,
			PrivateKey: keys.PrivateKey,
		}
		if err := rt.Store.ExternalAccount().Create(account); err != nil {
			fatal(err)
		}
		color.Green("Account '%s' created.", account.Username)
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove an existing external account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])
		if err := rt.Store.ExternalAccount().Delete(account.Username); err != nil {
			fatal(err)
		}
		color.Green("Account '%s' deleted.", account.Username)
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known external accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		accounts, err := rt.Store.ExternalAccount().ListAll()
		if err != nil {
			fatal(err)
		}
		if len(accounts) == 0 {
			color.Yellow("No external account found.")
			return
		}

		color.White("External accounts:")
		for _, account := range accounts {
			color.Green(" - %s", account.Username)
		}
	},
}

var accountNewTokenCmd = &cobra.Command{
	Use:   "new-token <username>",
	Short: "Generate a signed JWT token for a specific external account",
	Long: `Generate a signed JWT token for a specific external account.
The token will have no expiration date, so to revoke access, you will need
to rotate the RSA keys using the rotate-keys command.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])
		token, err := crypto.CreateAccessToken(account.Username, account.PrivateKey)
		if err != nil {
			fatal(err)
		}
		color.Green(token)
	},
}

var accountRotateKeysCmd = &cobra.Command{
	Use:   "rotate-keys <username>",
	Short: "Rotate RSA keys for a specific external account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])
		keys, err := crypto.GenerateKeyPair()
		if err != nil {
			fatal(err)
		}
		if err := rt.Store.ExternalAccount().SetKeys(account.Username, keys.PublicKey, keys.PrivateKey); err != nil {
			fatal(err)
		}
		color.Green("Keys rotated for external account '%s'", account.Username)
	},
}

// Account rights

var accountRightCmd = &cobra.Command{
	Use:   "right",
	Short: "Manage account rights",
}

var accountRightAddCmd = &cobra.Command{
	Use:   "add <username> <owner/name>",
	Short: "Add a new account right",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])
		repo := ensureRepository(rt, parseRepositoryPathArg(args[1]))

		if err := rt.Store.ExternalAccountRight().Grant(repo, account.Username); err != nil {
			fatal(err)
		}
		color.Green("Account '%s' granted on repository '%s'.", account.Username, repo.Path())
	},
}

var accountRightRemoveCmd = &cobra.Command{
	Use:   "remove <username> <owner/name>",
	Short: "Remove a specific account right",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])
		repo := ensureRepository(rt, parseRepositoryPathArg(args[1]))

		if err := rt.Store.ExternalAccountRight().Revoke(repo, account.Username); err != nil {
			fatal(err)
		}
		color.Green("Account '%s' right on repository '%s' deleted.", account.Username, repo.Path())
	},
}

var accountRightListCmd = &cobra.Command{
	Use:   "list <username>",
	Short: "List known account rights",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime()
		defer rt.Close()

		account := ensureExternalAccount(rt, args[0])

		rights, err := rt.Store.ExternalAccountRight().ListByUsername(account.Username)
		if err != nil {
			fatal(err)
		}
		if len(rights) == 0 {
			color.Yellow("No right found.")
			return
		}

		for _, right := range rights {
			repo, err := rt.Store.Repository().GetByID(right.RepositoryID)
			if err != nil {
				fatal(err)
			}
			color.Green("- %s", repo.Path())
		}
	},
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountNewTokenCmd)
	accountCmd.AddCommand(accountRotateKeysCmd)

	accountRightCmd.AddCommand(accountRightAddCmd)
	accountRightCmd.AddCommand(accountRightRemoveCmd)
	accountRightCmd.AddCommand(accountRightListCmd)
	accountCmd.AddCommand(accountRightCmd)
}
