package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

// revealRecord prints a record the way the end-user wants it: every field
// except the password on stdout, the password itself on the clipboard.
// Only when no clipboard program works is the password printed.
func revealRecord(record vault.Record, clipboardProg string) error {
	names := make([]string, 0, len(record))
	for name := range record {
		if name != vault.PasswordField {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s: %s\n", name, record[name])
	}

	password, ok := record[vault.PasswordField]
	if !ok {
		return nil
	}

	copied, err := clipboardCopy(password, clipboardProg)
	if err != nil {
		return err
	}

	if copied {
		fmt.Println("Password copied to clipboard.")
	} else {
		fmt.Printf("%s: %s\n", vault.PasswordField, password)
	}

	return nil
}

// chooseMatch resolves multiple search hits: print a numbered list, then
// re-prompt until the user picks a valid index.
func chooseMatch(paths []vault.Path) (vault.Path, error) {
	for i, path := range paths {
		fmt.Printf("%d. %s\n", i, path)
	}

	fmt.Println()

	for {
		line, err := promptLine("Which entry? ")
		if err != nil {
			return vault.Path{}, err
		}

		choice, err := strconv.Atoi(line)
		if err == nil && choice >= 0 && choice < len(paths) {
			return paths[choice], nil
		}

		fmt.Println("Invalid input")
	}
}

// searchReveal searches for pattern and reveals the match: a single hit is
// revealed directly, multiple hits go through the numbered choice prompt,
// and no hits is a quiet no-op.
func searchReveal(ctx context.Context, client *vault.Client, pattern string) error {
	paths, err := client.Search(ctx, pattern)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return nil
	}

	chosen := paths[0]

	if len(paths) > 1 {
		chosen, err = chooseMatch(paths)
		if err != nil {
			return err
		}
	}

	record, err := client.Get(ctx, chosen)
	if err != nil {
		return err
	}

	return revealRecord(record, resolvedCfg.ClipboardProgram())
}
