package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/keyring"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// DefaultVaultFile is the vault location under the user's home directory
const DefaultVaultFile = ".passholder/secrets.vault"

// PasswordSource tells where an accepted password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// ResolveVaultPath picks the vault file path: the --vault flag wins, then
// the PASSHOLDER_VAULT environment variable, then the default under $HOME.
// The core never reads configuration itself; this is the only place the
// path is decided.
func ResolveVaultPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("PASSHOLDER_VAULT"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultVaultFile
	}
	return filepath.Join(home, DefaultVaultFile)
}

// UnlockVault obtains the master password and unlocks the vault, trying
// the PASSHOLDER_PASSWORD environment variable, then the OS keyring, then
// an interactive prompt. A stale keyring entry is dropped and the user is
// prompted instead of failing. After a successful prompted unlock the user
// is offered to cache the password in the keyring. Exits the process on
// unrecoverable errors.
func UnlockVault(v *vault.Vault) PasswordSource {
	if !v.Exists() {
		HandleError(vault.ErrVaultNotFound)
	}

	// Environment variable first (scripting)
	if password := GetPasswordFromEnv(); password != nil {
		defer crypto.ClearBytes(password)
		if err := v.Unlock(password); err != nil {
			HandleError(err)
		}
		return SourceEnv
	}

	// Then the OS keyring
	vaultID, _ := v.GetVaultID()
	if vaultID != "" {
		if cached, err := keyring.GetPassword(vaultID); err == nil {
			password := []byte(cached)
			err := v.Unlock(password)
			crypto.ClearBytes(password)
			if err == nil {
				return SourceKeyring
			}
			if errors.Is(err, vault.ErrWrongPassword) {
				// Stale entry, fall through to the prompt
				keyring.DeletePassword(vaultID)
			} else {
				HandleError(err)
			}
		}
	}

	// Finally, prompt
	password, err := ReadPassword("Enter master password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := v.Unlock(password); err != nil {
		HandleError(err)
	}
	OfferToSavePassword(v, password)
	return SourcePrompt
}

// OfferToSavePassword asks whether to cache a prompted password in the OS
// keyring. Declines quietly when the keyring is unavailable.
func OfferToSavePassword(v *vault.Vault, password []byte) {
	if !confirm("Save password to OS keyring?") {
		return
	}

	vaultID, err := v.GetOrCreateVaultID()
	if err != nil {
		return
	}
	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Println("Password saved to keyring")
}

// HandleError prints a consistent message for known errors and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrVaultNotFound):
		fmt.Fprintf(os.Stderr, "Error: no vault found\n")
		fmt.Fprintf(os.Stderr, "Run 'passholder init' first\n")
	case errors.Is(err, vault.ErrVaultExists):
		fmt.Fprintf(os.Stderr, "Error: vault already exists\n")
		fmt.Fprintf(os.Stderr, "Use 'passholder status' to see its state\n")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong master password\n")
	case errors.Is(err, vault.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: record not found\n")
		fmt.Fprintf(os.Stderr, "Use 'passholder list' to see stored records\n")
	case errors.Is(err, vault.ErrCorrupted):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The vault file is damaged; restore it from a backup\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// shortID returns the id prefix shown in listings
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
