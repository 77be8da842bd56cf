package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Hemanthkumar2k04/PassHolder/internal/clipboard"
	"github.com/Hemanthkumar2k04/PassHolder/internal/record"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// Copy puts a record's password on the system clipboard and clears it
// after the timeout. The target is a record id (or prefix) via --id, or a
// service name; when several records match the service the user picks one.
func Copy(ctx context.Context, vaultPath, service, id string, noClear bool) {
	v := vault.New(vaultPath)
	defer v.Close()

	UnlockVault(v)

	var target record.Record
	if id != "" {
		fullID, err := v.ResolveID(id)
		if err != nil {
			HandleError(err)
		}
		r, err := v.Get(fullID)
		if err != nil {
			HandleError(err)
		}
		target = r
	} else {
		matches, err := v.SearchByService(service)
		if err != nil {
			HandleError(err)
		}
		switch len(matches) {
		case 0:
			HandleError(vault.ErrNotFound)
		case 1:
			target = matches[0]
		default:
			target = chooseRecord(matches)
		}
	}

	clip, err := clipboard.New()
	if err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			fmt.Fprintf(os.Stderr, "Error: no clipboard utility found (install xclip, xsel or wl-copy)\n")
			os.Exit(1)
		}
		HandleError(err)
	}

	if err := clip.Set(target.Password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	timeout := clipboard.DefaultClearTimeout
	if noClear {
		timeout = 0
	}

	if target.Username != "" {
		fmt.Printf("✓ Copied password for '%s' (%s) to clipboard\n", target.Service, target.Username)
	} else {
		fmt.Printf("✓ Copied password for '%s' to clipboard\n", target.Service)
	}
	if timeout > 0 {
		fmt.Printf("Clipboard will be cleared in %s\n", timeout)
	}

	if err := clipboard.ClearAfter(ctx, clip, timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// chooseRecord lets the user pick one of several matching records
func chooseRecord(matches []record.Record) record.Record {
	vault.SortByService(matches)
	fmt.Println("Multiple records match:")
	for i, r := range matches {
		if r.Username != "" {
			fmt.Printf("  [%d] %s (%s) - %s\n", i+1, r.Service, r.Username, shortID(r.ID))
		} else {
			fmt.Printf("  [%d] %s - %s\n", i+1, r.Service, shortID(r.ID))
		}
	}

	choice := readLine(fmt.Sprintf("Select record [1-%d]: ", len(matches)))
	var n int
	if _, err := fmt.Sscanf(choice, "%d", &n); err != nil || n < 1 || n > len(matches) {
		fmt.Fprintf(os.Stderr, "Error: invalid selection\n")
		os.Exit(1)
	}
	return matches[n-1]
}
