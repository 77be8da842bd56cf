package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Remove deletes a record from the vault after confirmation.
// Removal is atomic and irreversible.
func Remove(vaultPath, id string, force bool) {
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

	if !force {
		var label string
		if r.Username != "" {
			label = fmt.Sprintf("'%s' (%s)", r.Service, r.Username)
		} else {
			label = fmt.Sprintf("'%s'", r.Service)
		}
		if !confirm(fmt.Sprintf("Remove record %s for %s?", shortID(fullID), label)) {
			fmt.Println("Cancelled")
			os.Exit(0)
		}
	}

	if err := v.Remove(fullID); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Removed record %s for '%s'\n", shortID(fullID), r.Service)
}
