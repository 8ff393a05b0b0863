package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// decodeOpts holds the command-line flags for the decode command.
type decodeOpts struct {
	output     string // write recovered text here instead of stdout
	passphrase string // passphrase for encrypted payloads
}

// decodeCommand creates the decode command: QR sheet image in, text out.
func (c *CLI) decodeCommand() *cobra.Command {
	var opts decodeOpts

	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Decode a tiled QR PNG back to text",
		Long: `Decode scans every QR symbol in the image, reassembles the fragments,
decrypts them when a passphrase is given, verifies the SHA-256 checksum, and
prints the recovered text (or writes it with --output).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecode(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write recovered text to this file")
	cmd.Flags().StringVarP(&opts.passphrase, "passphrase", "p", "", "passphrase for encrypted payloads")

	return cmd
}

func (c *CLI) runDecode(cmd *cobra.Command, path string, opts *decodeOpts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return qrerrors.Wrap(qrerrors.ErrCodeValidation, err, "read image %s", path)
	}

	prog := newProgress(c.Logger)
	runner := c.newRunner(0)

	res, err := runner.Decode(cmd.Context(), data, opts.passphrase)
	if err != nil {
		// The stored hash is untrusted but useful for diagnosing which side
		// of the checksum went stale.
		var integrity *qrerrors.IntegrityError
		if errors.As(err, &integrity) && integrity.StoredHash != "" {
			printError("integrity check failed")
			printKeyValue("stored", integrity.StoredHash)
		}
		return err
	}

	prog.done(fmt.Sprintf("Decoded %d characters", len(res.Text)))

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(res.Text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printSuccess("recovered text")
		printFile(opts.output)
	} else {
		fmt.Println(res.Text)
	}

	if res.SHA256 != "" {
		printKeyValue("sha256", res.SHA256)
	} else {
		printInfo("legacy payload: no checksum to verify")
	}
	return nil
}
