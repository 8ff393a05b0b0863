package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/pipeline"
	"github.com/matzehuels/qrmosaic/pkg/qr"
)

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	output     string // output PNG path
	chunkSize  int    // fragment size in runes
	passphrase string // optional encryption passphrase
	noLabels   bool   // suppress index labels under symbols
	moduleSize int    // QR module width in pixels
}

// encodeCommand creates the encode command: text in, QR sheet PNG out.
func (c *CLI) encodeCommand() *cobra.Command {
	opts := encodeOpts{
		output:     "multi_qr.png",
		chunkSize:  pipeline.DefaultChunkSize,
		moduleSize: qr.DefaultModuleSize,
	}

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode text into a tiled QR PNG",
		Long: `Encode reads text from a file (or stdin when the argument is omitted or "-"),
wraps it with a SHA-256 checksum, optionally encrypts it with a passphrase,
and writes a single PNG containing the tiled QR symbols.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			return c.runEncode(cmd, text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	cmd.Flags().IntVarP(&opts.chunkSize, "chunk-size", "c", opts.chunkSize, "fragment size in characters")
	cmd.Flags().StringVarP(&opts.passphrase, "passphrase", "p", "", "encrypt the payload with this passphrase")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit index labels under symbols")
	cmd.Flags().IntVar(&opts.moduleSize, "module-size", opts.moduleSize, "QR module width in pixels")

	return cmd
}

func (c *CLI) runEncode(cmd *cobra.Command, text string, opts *encodeOpts) error {
	prog := newProgress(c.Logger)

	runner := c.newRunner(opts.moduleSize)
	data, err := runner.Encode(cmd.Context(), text, pipeline.Options{
		ChunkSize:  opts.chunkSize,
		Passphrase: opts.passphrase,
		NoLabels:   opts.noLabels,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	prog.done(fmt.Sprintf("Encoded %d characters", len(text)))
	printSuccess("wrote QR sheet")
	printFile(opts.output)
	if opts.passphrase != "" {
		printInfo("payload is encrypted; decoding requires the same passphrase")
	}
	return nil
}

// readInput reads the text to encode from the file argument, or from stdin
// when the argument is omitted or "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", qrerrors.Wrap(qrerrors.ErrCodeValidation, err, "read input file %s", args[0])
	}
	return string(data), nil
}
