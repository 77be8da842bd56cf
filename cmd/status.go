package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Hemanthkumar2k04/PassHolder/internal/keyring"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Status shows vault information without requiring the master password.
// Nothing printed here is secret: record count and parameters are visible
// to anyone holding the vault file anyway.
func Status(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	info, err := v.Status()
	if err != nil {
		if errors.Is(err, vault.ErrVaultNotFound) {
			fmt.Printf("No vault found at %s\n", v.Path())
			fmt.Println("Run 'passholder init' to create one")
			return
		}
		HandleError(err)
	}

	fmt.Printf("Vault:      %s\n", v.Path())
	fmt.Printf("Records:    %d\n", info.RecordCount)
	fmt.Printf("Encryption: %s\n", info.Algorithm)
	fmt.Printf("KDF:        PBKDF2-HMAC-SHA256, %d iterations\n", info.KDFIterations)
	if !info.Created.IsZero() {
		fmt.Printf("Created:    %s\n", info.Created.Format(time.RFC3339))
	}
	if !info.Modified.IsZero() {
		fmt.Printf("Modified:   %s\n", info.Modified.Format(time.RFC3339))
	}

	if fi, err := os.Stat(v.Path()); err == nil {
		fmt.Printf("Size:       %s\n", formatSize(fi.Size()))
	}

	if vaultID, err := v.GetVaultID(); err == nil && keyring.HasPassword(vaultID) {
		fmt.Println("Keyring:    password cached")
	}
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
