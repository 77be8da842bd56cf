package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Hemanthkumar2k04/PassHolder/internal/record"
	"github.com/Hemanthkumar2k04/PassHolder/internal/vault"
)

// List shows all stored records. Passwords are never printed here;
// use 'get' or 'copy' for the secret itself.
func List(vaultPath string) {
	v := vault.New(vaultPath)
	defer v.Close()

	UnlockVault(v)

	records, err := v.List()
	if err != nil {
		HandleError(err)
	}

	printRecordTable(records)
}

func printRecordTable(records []record.Record) {
	if len(records) == 0 {
		fmt.Println("No records in vault")
		return
	}

	vault.SortByService(records)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tUSERNAME\tNOTES")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(r.ID), r.Service, r.Username, r.Notes)
	}
	w.Flush()
}
