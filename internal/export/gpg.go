package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// gpgProgram is the encryption binary invoked for export files.
const gpgProgram = "gpg"

// Encryptor encrypts a plaintext stream for one recipient. The exec-based
// implementation is the default; tests substitute a fake.
type Encryptor func(ctx context.Context, recipient, outputPath string, plaintext []byte) error

// GPGEncrypt pipes plaintext through gpg --encrypt for the recipient,
// writing the ciphertext to outputPath. The plaintext only ever exists in
// memory and in gpg's stdin pipe.
func GPGEncrypt(ctx context.Context, recipient, outputPath string, plaintext []byte) error {
	cmd := exec.CommandContext(ctx, gpgProgram,
		"--batch", "--yes",
		"--encrypt",
		"--recipient", recipient,
		"--output", outputPath,
	)
	cmd.Stdin = bytes.NewReader(plaintext)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("export: gpg failed: %w: %s", err, stderr.String())
	}

	return nil
}
