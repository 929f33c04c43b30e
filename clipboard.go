package main

import (
	"fmt"
	"os/exec"
	"strings"
)

// clipboardCopy pipes content to the clipboard program's stdin. Returns
// false (no error) when no program is configured or the program is not
// installed — the caller then prints the content instead.
func clipboardCopy(content, prog string) (bool, error) {
	if prog == "" {
		return false, nil
	}

	if _, err := exec.LookPath(prog); err != nil {
		return false, nil
	}

	cmd := exec.Command(prog)
	cmd.Stdin = strings.NewReader(content)

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("clipboard program %s failed: %w", prog, err)
	}

	return true, nil
}
