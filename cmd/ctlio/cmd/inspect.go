package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scanco-io/ctio/internal/config"
	"github.com/scanco-io/ctio/pkg/scanco"
	"github.com/scanco-io/ctio/pkg/util"
)

// NewInspectCmd decodes a file's header and prints it as text or JSON.
func NewInspectCmd(ctx context.Context, cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "decode and print a Scanco volume file's header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			return runInspect(ctx, args[0], format, cfg())
		},
	}
	cmd.Flags().StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

func runInspect(ctx context.Context, path string, format string, cfg *config.Config) error {
	if path == "" {
		return fmt.Errorf("%s: no file path given", scanco.KindEmptyFileName)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	first16 := make([]byte, 16)
	if _, err := f.ReadAt(first16, 0); err != nil {
		return fmt.Errorf("reading signature from %s: %w", path, err)
	}
	correlationID := util.HashCorrelationID(first16)
	logger := slog.With("correlationId", correlationID, "file", path)
	logger.InfoContext(ctx, "inspecting volume file")

	rd := scanco.NewReader(f)
	h, err := rd.ReadHeader()
	if err != nil {
		logger.ErrorContext(ctx, "header decode failed", "error", err)
		return fmt.Errorf("reading header: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}

	printHeaderText(h, cfg)
	return nil
}

func printHeaderText(h *scanco.ScancoHeader, cfg *config.Config) {
	fmt.Printf("Version:           %s\n", h.Version)
	fmt.Printf("Patient:           %s (index %d)\n", h.PatientName, h.PatientIndex)
	fmt.Printf("Scanner:           id=%d type=%d\n", h.ScannerID, h.ScannerType)
	fmt.Printf("Created:           %s\n", h.CreationDate)
	fmt.Printf("Dimensions:        %d x %d x %d\n", h.Geometry.Dimensions[0], h.Geometry.Dimensions[1], h.Geometry.Dimensions[2])
	fmt.Printf("Spacing (mm):      %.6f x %.6f x %.6f\n", h.Geometry.Spacing[0], h.Geometry.Spacing[1], h.Geometry.Spacing[2])
	fmt.Printf("Component:         %s (vector=%d)\n", h.Geometry.Component, h.Geometry.VectorLen)
	fmt.Printf("Compression:       0x%04X\n", int32(h.Compression))
	fmt.Printf("Header size:       %d bytes\n", h.HeaderSize)
	fmt.Printf("Pixel bytes:       %d\n", h.Geometry.PixelBytes())
	if cfg.Read.RescaleToHU {
		fmt.Printf("Rescale:           slope=%g intercept=%g (mu water=%g, mu scaling=%g)\n", h.RescaleSlope, h.RescaleIntercept, h.MuWater, h.MuScaling)
	}
}
