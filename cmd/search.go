package cmd

import (
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Search shows all records whose service matches the query,
// case-insensitively. Matching happens on decrypted data; the vault
// keeps no plaintext index to search against.
func Search(vaultPath, query string) {
	v := vault.New(vaultPath)
	defer v.Close()

	UnlockVault(v)

	matches, err := v.SearchByService(query)
	if err != nil {
		HandleError(err)
	}

	printRecordTable(matches)
}
