package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Update edits an existing record. Current values are offered as
// defaults; an empty answer keeps them. The password prompt is unechoed
// and leaving it empty keeps the stored password.
func Update(vaultPath, id string) {
	v := vault.New(vaultPath)
	defer v.Close()

	UnlockVault(v)

	fullID, err := v.ResolveID(id)
	if err != nil {
		HandleError(err)
	}

	r, err := v.Get(fullID)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Editing record %s (leave blank to keep current value)\n", shortID(fullID))
	r.Service = readLineDefault("Service", r.Service)
	r.Username = readLineDefault("Username", r.Username)

	secret, err := ReadPassword("Password (blank to keep current): ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(secret)
	if len(secret) > 0 {
		r.Password = string(secret)
	}

	r.Notes = readLineDefault("Notes", r.Notes)

	if err := v.Update(fullID, r); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Updated record %s for '%s'\n", shortID(fullID), r.Service)
}
