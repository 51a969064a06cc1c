package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/allowlist"
	"github.com/nao1215/phishguard/internal/feature"
)

// featuresOutput is the JSON form of the features command.
type featuresOutput struct {
	URL         string          `json:"url"`
	Schema      string          `json:"schema"`
	Host        string          `json:"host,omitempty"`
	Allowlisted bool            `json:"allowlisted"`
	Fallback    bool            `json:"fallback"`
	Features    []feature.Named `json:"features"`
}

// NewFeaturesCmd creates the features command.
func NewFeaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features <url>",
		Short: "Print the feature vector of a URL",
		Long: `Features prints the 30 values the classifier would receive for a URL,
in the order the model was trained with. No network access is needed.

Values are 1 (suspicious), 0 (borderline) or -1 (legitimate).`,
		Args: cobra.ExactArgs(1),
		RunE: runFeaturesCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")

	return cmd
}

// runFeaturesCmd executes the features command.
func runFeaturesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	rawURL := args[0]
	res := feature.New(cfg.Lists).Inspect(rawURL)
	out := featuresOutput{
		URL:         rawURL,
		Schema:      feature.SchemaVersion,
		Host:        res.Host,
		Allowlisted: allowlist.New(cfg.Allowlist).ContainsHost(res.Host),
		Fallback:    res.Fallback,
		Features:    res.Vector.Named(),
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "URL:         %s\n", out.URL)
	fmt.Fprintf(w, "Schema:      %s\n", out.Schema)
	if out.Fallback {
		fmt.Fprintln(w, "Note:        URL could not be parsed, all features set to 1")
	} else {
		fmt.Fprintf(w, "Host:        %s\n", out.Host)
		fmt.Fprintf(w, "Allowlisted: %t\n", out.Allowlisted)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, f := range out.Features {
		fmt.Fprintf(tw, "%2d\t%s\t%d\n", i, f.Name, f.Value)
	}
	return tw.Flush()
}
