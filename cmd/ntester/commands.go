package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agronomy/pkg/masterdata"
	"agronomy/pkg/ntester"
)

func (a *app) lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Recommend an N top-up for a reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crop, _ := cmd.Flags().GetString("crop")
			cult, _ := cmd.Flags().GetString("cultivation")
			reading, _ := cmd.Flags().GetInt("reading")
			md, err := a.service()
			if err != nil {
				return err
			}
			topUp, ok := md.LookupTopUp(masterdata.Reading{Value: reading, Crop: crop, CultivationType: cult})
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s reading %d: N/A (no band covers this reading)\n", crop, cult, reading)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s reading %d: %d %s (%s)\n", crop, cult, reading, topUp, masterdata.TopUpUnit, ntester.UrgencyFor(topUp))
			return nil
		},
	}
	cmd.Flags().String("crop", "", "Crop name")
	cmd.Flags().String("cultivation", "", "Cultivation type")
	cmd.Flags().Int("reading", 0, "N-Tester reading")
	for _, f := range []string{"crop", "cultivation", "reading"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Grade one nutrient value against its range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crop, _ := cmd.Flags().GetString("crop")
			part, _ := cmd.Flags().GetString("part")
			nutrient, _ := cmd.Flags().GetString("nutrient")
			value, _ := cmd.Flags().GetFloat64("value")
			md, err := a.service()
			if err != nil {
				return err
			}
			out, _ := md.Classify(masterdata.CropPart{Crop: crop, PlantPart: part}, []masterdata.Measurement{{Nutrient: nutrient, Value: value}})
			v := out[0]
			fmt.Fprintf(cmd.OutOrStdout(), "%s %g %s: %s\n", v.Nutrient, v.Value, v.Unit, v.Status)
			return nil
		},
	}
	cmd.Flags().String("crop", "", "Crop name")
	cmd.Flags().String("part", "Leaf", "Plant part")
	cmd.Flags().String("nutrient", "", "Nutrient name, e.g. \"Nitrogen (N)\"")
	cmd.Flags().Float64("value", 0, "Measured value")
	for _, f := range []string{"crop", "nutrient", "value"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <bands.csv|bands.xlsx>",
		Short: "Check a band table file and print the normalised tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, _ := cmd.Flags().GetString("sheet")
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			// the store is scratch: nothing is written back
			md, err := a.service()
			if err != nil {
				return err
			}
			tables, err := md.ImportBands(args[0], f, sheet)
			var verr *masterdata.ValidationError
			if errors.As(err, &verr) {
				if verr.Line > 0 {
					return fmt.Errorf("invalid band table: %w", err)
				}
				return fmt.Errorf("invalid band table: row %d: %w", verr.Row, err)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range tables {
				rows := t.Bands
				fmt.Fprintf(w, "%s\n", t.CropCultivation)
				fmt.Fprintf(w, "  min\tmax\ttop-up\n")
				for _, r := range rows {
					fmt.Fprintf(w, "  %d\t%d\t%d\n", r.MinReading, r.MaxReading, r.TopUp)
				}
				for _, o := range masterdata.Overlaps(rows) {
					fmt.Fprintf(w, "  ! rows %d and %d overlap; row %d wins\n", o.First, o.Second, o.First)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d band table(s) ok\n", len(tables))
			return nil
		},
	}
	cmd.Flags().String("sheet", masterdata.SheetBands, "Worksheet to read from an .xlsx file")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.xlsx>",
		Short: "Write the reference tables to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := a.service()
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := md.ExportWorkbook(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.log.WithField("file", args[0]).Info("workbook written")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
