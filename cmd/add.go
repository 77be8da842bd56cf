package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/crypto"
	"github.com/Hemanthkumar2k04/PassHolder/internal/record"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Add stores a new record. Missing fields are prompted for; the secret
// itself is always read without echo.
func Add(vaultPath, service, username, password, notes string) {
	v := vault.New(vaultPath)
	defer v.Close()

	UnlockVault(v)

	if service == "" {
		service = readLine("Service: ")
	}
	if service == "" {
		fmt.Fprintf(os.Stderr, "Error: service must not be empty\n")
		os.Exit(1)
	}
	if username == "" {
		username = readLine("Username (optional): ")
	}
	if password == "" {
		secret, err := ReadPassword("Password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		defer crypto.ClearBytes(secret)
		password = string(secret)
	}
	if password == "" {
		fmt.Fprintf(os.Stderr, "Error: password must not be empty\n")
		os.Exit(1)
	}
	if notes == "" {
		notes = readLine("Notes (optional): ")
	}

	id, err := v.Add(record.Record{
		Service:  service,
		Username: username,
		Password: password,
		Notes:    notes,
	})
	if err != nil {
		HandleError(err)
	}

	if username != "" {
		fmt.Printf("✓ Added record %s for '%s' (%s)\n", shortID(id), service, username)
	} else {
		fmt.Printf("✓ Added record %s for '%s'\n", shortID(id), service)
	}
}
