package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	var (
		pretend bool
		remove  bool
		keep    bool
		verbose int
	)

	rootCmd := &cobra.Command{
		Use:   "hrdups [directory...]",
		Short: "Hardlink (or remove) duplicate files",
		Long: `hrdups finds files with byte-identical content under the given
directory trees and replaces each duplicate with a hardlink to the first
copy encountered, reclaiming the duplicate's space while keeping its path
alive. With --remove, duplicates are deleted instead of hardlinked.

Files are grouped by size first and fingerprinted with SHA-256 only once
a second file of the same size shows up, so size-unique files are never
read. Two files are only merged when their owner, group, mode and device
match: a hardlink shares all inode metadata, and merging files that
disagree on it would silently rewrite the duplicate's.

Examples:
  hrdups --pretend /srv/backup   # report reclaimable space, change nothing
  hrdups /srv/backup             # hardlink duplicates in place
  hrdups -r -k /srv/backup      # delete duplicates, keep emptied folders`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			roots := args
			if len(roots) == 0 {
				roots = []string{"."}
			}

			level := slog.LevelInfo
			if verbose > 0 {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			run(roots, dedupOptions{pretend: pretend, remove: remove, keep: keep}, verbose)
		},
	}

	rootCmd.Flags().BoolVarP(&pretend, "pretend", "p", false, "dry-run: report savings without changing anything")
	rootCmd.Flags().BoolVarP(&remove, "remove", "r", false, "don't hardlink duplicates, just remove them")
	rootCmd.Flags().BoolVarP(&keep, "keep", "k", false, "keep empty folders on remove")
	rootCmd.Flags().CountVarP(&verbose, "verbose", "v", "explain the hashing process (repeat for more detail)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run drives the two passes: build the size/fingerprint grouping, then
// hand it whole to the executor. Errors from either pass are reported
// here and nowhere else; a traversal failure truncates the scan but the
// executor still processes whatever was grouped before it, and the
// process exits 0 either way.
func run(roots []string, opts dedupOptions, verbose int) {
	fmt.Println("Building hash map...")
	h := &hasher{verbosity: verbose}
	m, err := traverse(roots, h.hashFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if opts.pretend {
		fmt.Println(color.YellowString("Pretend mode - no changes will be made"))
	}
	if opts.remove {
		fmt.Println("Removing...")
	} else {
		fmt.Println("Hard-linking...")
	}

	stats, err := dedup(m, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	slog.Debug("dedup complete",
		"groups", stats.groups,
		"files_merged", stats.filesMerged,
		"already_linked", stats.alreadyLinked,
		"mismatches", stats.mismatches,
	)

	fmt.Println("Done!")
	fmt.Printf("Saved %.2fMiB\n", stats.savedMiB())
}
