package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Init creates a new vault protected by a master password
func Init(vaultPath string, iterations int) {
	v := vault.New(vaultPath)
	defer v.Close()

	if v.Exists() {
		HandleError(vault.ErrVaultExists)
	}

	// Read password (env var or prompt with confirmation)
	password, err := GetPasswordForInit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if len(password) == 0 {
		fmt.Fprintf(os.Stderr, "Error: master password must not be empty\n")
		os.Exit(1)
	}

	if err := v.Create(password, iterations); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Initialized vault at %s\n", v.Path())
	fmt.Println("The master password is not stored anywhere - you must remember it.")
}
