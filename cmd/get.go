package cmd

import (
	"fmt"
	"time"

	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Get prints a single record by id (or unique id prefix). The password is
// replaced by asterisks unless --show is given.
func Get(vaultPath, id string, show bool) {
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

	password := "********"
	if show {
		password = r.Password
	}

	fmt.Printf("ID:       %s\n", r.ID)
	fmt.Printf("Service:  %s\n", r.Service)
	fmt.Printf("Username: %s\n", r.Username)
	fmt.Printf("Password: %s\n", password)
	fmt.Printf("Notes:    %s\n", r.Notes)
	fmt.Printf("Created:  %s\n", r.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("Updated:  %s\n", r.UpdatedAt.Local().Format(time.RFC3339))

	if !show {
		fmt.Println("\nUse --show to print the password, or 'passholder copy' to copy it.")
	}
}
