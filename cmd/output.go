package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"screenshot-mirror/core/reconcile"
	"screenshot-mirror/core/utils"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// namesShown caps the names printed per line in text output.
const namesShown = 10

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", s)
	}
}

// encode writes v as json or yaml. It reports false for text output.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func writeReport(w io.Writer, format string, r *reconcile.Report) error {
	if done, err := encode(w, format, r); done {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pass\t%s\n", r.PassID)
	fmt.Fprintf(tw, "Duration\t%s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(tw, "Deleted\t%d\t%s\n", r.Summary.Deleted, utils.Abbreviate(r.Deleted, namesShown))
	fmt.Fprintf(tw, "Added\t%d\t%s\n", r.Summary.Added, utils.Abbreviate(r.Added, namesShown))
	fmt.Fprintf(tw, "Skipped\t%d\t%s\n", r.Summary.Skipped, utils.Abbreviate(r.Skipped, namesShown))
	fmt.Fprintf(tw, "Unchanged\t%d\t\n", r.Summary.Unchanged)
	if r.Summary.Ignored > 0 {
		fmt.Fprintf(tw, "Ignored\t%d\t\n", r.Summary.Ignored)
	}
	if r.Summary.Retained > 0 {
		fmt.Fprintf(tw, "Retained\t%d\t\n", r.Summary.Retained)
	}
	fmt.Fprintf(tw, "Failed\t%d\t\n", r.Summary.Failed)
	if r.LedgerSaved {
		fmt.Fprintf(tw, "Ledger\t%s\t\n", utils.Plural(r.Summary.Ledger, "name", "names"))
	} else {
		fmt.Fprintf(tw, "Ledger\tnot saved\t\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range r.Failures {
		name := f.Name
		if name == "" {
			name = "(pass)"
		}
		if _, err := fmt.Fprintf(w, "  ! %s [%s/%s] %s\n", name, f.Op, f.Kind, f.Reason); err != nil {
			return err
		}
	}
	return nil
}

func writePlan(w io.Writer, format string, p *reconcile.Plan) error {
	if done, err := encode(w, format, p); done {
		return err
	}

	added := make([]string, len(p.Added))
	for i, it := range p.Added {
		added[i] = it.Name
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Known\t%d\t\n", p.KnownCount)
	fmt.Fprintf(tw, "Source\t%d\t\n", p.SourceCount)
	fmt.Fprintf(tw, "To delete\t%d\t%s\n", len(p.Removed), utils.Abbreviate(p.Removed, namesShown))
	fmt.Fprintf(tw, "To add\t%d\t%s\n", len(added), utils.Abbreviate(added, namesShown))
	fmt.Fprintf(tw, "Unchanged\t%d\t\n", len(p.Unchanged))
	if len(p.Ignored) > 0 {
		fmt.Fprintf(tw, "Ignored\t%d\t%s\n", len(p.Ignored), utils.Abbreviate(p.Ignored, namesShown))
	}
	if len(p.Retained) > 0 {
		fmt.Fprintf(tw, "Retained\t%d\t%s\n", len(p.Retained), utils.Abbreviate(p.Retained, namesShown))
	}
	if len(p.Duplicates) > 0 {
		fmt.Fprintf(tw, "Duplicates\t%d\t%s\n", len(p.Duplicates), utils.Abbreviate(p.Duplicates, namesShown))
	}
	return tw.Flush()
}

func writeNames(w io.Writer, format string, names []string) error {
	if done, err := encode(w, format, names); done {
		return err
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}
