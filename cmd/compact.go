package cmd

import (
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Compact compacts the vault database to reclaim unused space
func Compact(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	info, err := os.Stat(v.Path())
	if err != nil {
		HandleError(vault.ErrVaultNotFound)
	}
	sizeBefore := info.Size()

	if err := v.Compact(); err != nil {
		HandleError(err)
	}

	info, err = os.Stat(v.Path())
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
}
