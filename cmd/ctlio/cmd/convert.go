package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scanco-io/ctio/internal/config"
	"github.com/scanco-io/ctio/pkg/scanco"
	"github.com/scanco-io/ctio/pkg/util"
)

// NewConvertCmd reads one volume file and writes another in the
// requested (or config-default) output format.
func NewConvertCmd(ctx context.Context, cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "convert a Scanco volume file to another supported format",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			return runConvert(ctx, in, out, cfg())
		},
	}
	pf := cmd.Flags()
	pf.StringP("in", "i", "", "input file path")
	pf.StringP("out", "o", "", "output file path")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runConvert(ctx context.Context, inPath, outPath string, cfg *config.Config) error {
	if inPath == "" || outPath == "" {
		return fmt.Errorf("%s: both --in and --out are required", scanco.KindEmptyFileName)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	first16 := make([]byte, 16)
	if _, err := in.ReadAt(first16, 0); err != nil {
		return fmt.Errorf("reading signature from %s: %w", inPath, err)
	}
	correlationID := util.HashCorrelationID(first16)
	logger := slog.With("correlationId", correlationID, "in", inPath, "out", outPath)
	logger.InfoContext(ctx, "starting conversion")

	rd := scanco.NewReader(in)
	h, err := rd.ReadHeader()
	if err != nil {
		logger.ErrorContext(ctx, "header decode failed", "error", err)
		return fmt.Errorf("reading header: %w", err)
	}

	pixels := make([]byte, h.Geometry.PixelBytes())
	if err := rd.ReadPixels(h, pixels); err != nil {
		logger.ErrorContext(ctx, "pixel decode failed", "error", err)
		return fmt.Errorf("reading pixels: %w", err)
	}

	outVersion, err := resolveWriteVersion(outPath, cfg)
	if err != nil {
		return err
	}
	h.Version = outVersion

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer outFile.Close()

	wr := scanco.NewWriter(outFile)
	if err := wr.WriteHeader(h, int64(len(pixels))); err != nil {
		logger.ErrorContext(ctx, "header encode failed", "error", err)
		return fmt.Errorf("writing header: %w", err)
	}
	if err := wr.WritePixels(h, pixels); err != nil {
		logger.ErrorContext(ctx, "pixel encode failed", "error", err)
		return fmt.Errorf("writing pixels: %w", err)
	}

	logger.InfoContext(ctx, "conversion complete", "bytes", len(pixels))
	return nil
}

// resolveWriteVersion picks the header dialect to write from outPath's
// extension, falling back to the config defaults when the extension is
// absent or ambiguous ("aim" with no version hint).
func resolveWriteVersion(outPath string, cfg *config.Config) (scanco.HeaderVersion, error) {
	ext := scanco.DetectExtension(outPath)
	if ext == scanco.ExtUnrecognized {
		switch strings.ToLower(cfg.Write.DefaultExtension) {
		case "aim":
			ext = scanco.ExtAIM
		default:
			ext = scanco.ExtISQ
		}
	}

	switch ext {
	case scanco.ExtISQ:
		return scanco.CTHeaderV1, nil
	case scanco.ExtAIM:
		if strings.ToLower(cfg.Write.AIMVersion) == "v020" {
			return scanco.AimV020, nil
		}
		return scanco.AimV030, nil
	default:
		return scanco.Unknown, fmt.Errorf("%s: cannot write extension of %s (RAD/RSQ are read-only)", scanco.KindUnsupportedWriteFormat, outPath)
	}
}
