package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"saju/internal/domain/chart"
	"saju/pkg/errors"
)

// batchFile is the YAML layout read by the batch command
type batchFile struct {
	Births []chart.Birth `yaml:"births"`
}

// batchCmd computes every birth listed in a YAML file
var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Compute charts for every birth in a YAML file",
	Long: `Compute charts for every birth listed under "births:" in a YAML file.

Births are computed concurrently (SAJU_BATCH_CONCURRENCY). Reports are
written in input order; failed births are reported on stderr and the
command exits non-zero once every birth has been attempted.`,
	Example: `  saju batch births.yaml -o yaml

  # births.yaml
  births:
    - {year: 1990, month: 5, day: 15, hour: 12, time_known: true, gender: male}
    - {year: 1984, month: 2, day: 4, gender: female, midnight_mode: early}`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", args[0])
	}
	defer f.Close()

	births, err := readBatch(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}

	reports, err := current.service.ComputeBatch(cmd.Context(), births)

	computed := make([]*chart.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			computed = append(computed, r)
		}
	}
	if werr := writeAll(cmd.OutOrStdout(), outputFormat, computed); werr != nil {
		return werr
	}

	var failed *errors.MultiError
	if errors.As(err, &failed) {
		for _, f := range failed.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), f)
		}
		return errors.Wrapf(failed, "%d of %d births failed", len(failed.Errors), len(births))
	}
	return err
}

// readBatch decodes a batch file, rejecting unknown fields
func readBatch(r io.Reader) ([]chart.Birth, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file batchFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.NewValidationError("births", "file is empty", nil)
		}
		return nil, errors.Wrap(err, "invalid batch yaml")
	}
	if len(file.Births) == 0 {
		return nil, errors.NewValidationError("births", "must list at least one birth", 0)
	}
	return file.Births, nil
}
