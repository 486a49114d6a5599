package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/arthur-debert/treesync/pkg/treesync"
)

func printSummary(w io.Writer, result *treesync.Result, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "DRY RUN: no changes were made")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Action", "Count"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Directories created", strconv.Itoa(len(result.DirsCreated))})
	table.Append([]string{"Files created", strconv.Itoa(len(result.FilesCreated))})
	table.Append([]string{"Files updated", strconv.Itoa(len(result.FilesUpdated))})
	table.Append([]string{"Files unchanged", strconv.Itoa(result.FilesUnchanged)})
	table.Append([]string{"Files deleted", strconv.Itoa(len(result.FilesDeleted))})
	table.Append([]string{"Errors", strconv.Itoa(len(result.Diagnostics))})
	table.Render()

	fmt.Fprintf(w, "%s copied\n", humanize.Bytes(uint64(result.BytesCopied)))
}
