package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/keyring"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// KeyringSave caches the master password in the OS keyring
func KeyringSave(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	if !v.Exists() {
		HandleError(vault.ErrVaultNotFound)
	}

	password, err := ReadPassword("Enter master password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	// Verify the password before caching it
	if err := v.VerifyPassword(password); err != nil {
		HandleError(err)
	}

	vaultID, err := v.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the cached master password from the OS keyring
func KeyringDelete(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	vaultID, err := v.GetVaultID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a master password is cached in the keyring
func KeyringStatus(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	vaultID, err := v.GetVaultID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
