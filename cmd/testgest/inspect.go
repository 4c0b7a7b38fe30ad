package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/dgallion1/testgest/internal/docparse"
	"github.com/dgallion1/testgest/internal/matrix"
	"github.com/dgallion1/testgest/internal/model"
	"github.com/dgallion1/testgest/internal/parser"
	"github.com/spf13/cobra"
)

// inspectReport is what inspect prints: the extraction without any LLM call.
type inspectReport struct {
	Title        string              `json:"title"`
	Pages        int                 `json:"pages"`
	SkippedPages []int               `json:"skipped_pages"`
	Sections     []model.Section     `json:"sections"`
	Requirements []model.Requirement `json:"requirements"`
	Signals      model.SignalDict    `json:"signals"`
}

func newInspectCmd(root *rootOptions) *cobra.Command {
	var specPath, matrixPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the requirements and signals extracted from a specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if specPath == "" {
				specPath = root.cfg.SpecPath()
			}
			doc, err := parser.ParseFile(specPath, parser.Options{FallbackPdftotext: root.cfg.PDFFallbackPdftotext})
			if err != nil {
				return err
			}
			res := docparse.Parse(doc.Text())

			report := inspectReport{
				Title:        doc.Title,
				Pages:        len(doc.Pages),
				SkippedPages: []int{},
				Sections:     res.Sections,
				Requirements: res.Requirements,
				Signals:      res.Signals,
			}
			for _, s := range doc.Skipped {
				report.SkippedPages = append(report.SkippedPages, s.Page)
			}
			if matrixPath != "" {
				table, err := matrix.ReadFile(matrixPath)
				if err != nil {
					return err
				}
				report.Signals = matrix.Load(table, res.Signals)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "functional specification document (default <inputs>/<spec_file>)")
	cmd.Flags().StringVar(&matrixPath, "matrix", "", "optional CAN signal matrix to merge")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(w io.Writer, r inspectReport) {
	fmt.Fprintf(w, "Document: %s (%d pages", r.Title, r.Pages)
	if len(r.SkippedPages) > 0 {
		fmt.Fprintf(w, ", skipped %v", r.SkippedPages)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Sections: %d\n", len(r.Sections))

	fmt.Fprintf(w, "Requirements: %d\n", len(r.Requirements))
	for _, req := range r.Requirements {
		fmt.Fprintf(w, "  [%s] %s: %s\n", req.ID, req.Type, req.Description)
	}

	fmt.Fprintf(w, "Signals: %d\n", len(r.Signals))
	for _, name := range r.Signals.Names() {
		fields := r.Signals[name].Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fmt.Fprintf(w, "  %s", name)
		for _, k := range keys {
			if v := fields[k]; v != "" {
				fmt.Fprintf(w, " %s=%s", k, v)
			}
		}
		fmt.Fprintln(w)
	}
}
