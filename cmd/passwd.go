package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/keyring"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Passwd changes the master password. Every record is re-encrypted under
// a freshly derived key; the change commits in a single transaction.
func Passwd(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	if !v.Exists() {
		HandleError(vault.ErrVaultNotFound)
	}

	currentPassword, err := ReadPassword("Enter current master password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(currentPassword)

	newPassword, err := ReadPasswordConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(newPassword)

	if len(newPassword) == 0 {
		fmt.Fprintf(os.Stderr, "Error: master password must not be empty\n")
		os.Exit(1)
	}

	if err := v.ChangePassword(currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Keep a cached keyring entry in sync with the new password
	if vaultID, err := v.GetVaultID(); err == nil && keyring.HasPassword(vaultID) {
		if err := keyring.SavePassword(vaultID, string(newPassword)); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	// Compact after rewriting every record
	if err := v.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("✓ Master password changed")
}
