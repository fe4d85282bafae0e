package cli

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/vaultkeeper/internal/model"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

type secretOut struct {
	ID        string    `yaml:"id"`
	Label     string    `yaml:"label"`
	Value     string    `yaml:"value,omitempty"`
	Creator   string    `yaml:"creator"`
	CreatedAt time.Time `yaml:"created_at"`
}

type groupOut struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Admin     bool      `yaml:"admin"`
	CreatedAt time.Time `yaml:"created_at"`
}

type memberOut struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Admin bool   `yaml:"admin"`
}

func formatFlag(fs *flag.FlagSet) *string {
	return fs.String("o", formatText, "output format: text or yaml")
}

func toSecretOut(v model.SecretView, withValue bool) secretOut {
	out := secretOut{
		ID:        v.ID.String(),
		Label:     v.Label,
		Creator:   v.CreatorName(),
		CreatedAt: v.CreatedAt,
	}
	if withValue {
		out.Value = v.Value
	}
	return out
}

// render writes data as YAML, or calls text for the tabular form.
func render(w io.Writer, format string, data any, text func(tw *tabwriter.Writer)) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	case formatText, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		text(tw)
		return tw.Flush()
	default:
		return &usageError{msg: fmt.Sprintf("unknown output format %q", format), synopsis: "<command> -o text|yaml"}
	}
}

func renderSecrets(w io.Writer, format string, views []model.SecretView) error {
	out := make([]secretOut, 0, len(views))
	for _, v := range views {
		out = append(out, toSecretOut(v, false))
	}

	return render(w, format, out, func(tw *tabwriter.Writer) {
		if len(out) == 0 {
			fmt.Fprintln(tw, "no secrets")
			return
		}
		fmt.Fprintln(tw, "ID\tLABEL\tCREATOR\tCREATED")
		for _, s := range out {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Label, s.Creator, s.CreatedAt.Local().Format(time.DateTime))
		}
	})
}

func renderSecret(w io.Writer, format string, view model.SecretView) error {
	out := toSecretOut(view, true)
	return render(w, format, out, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "id:\t%s\n", out.ID)
		fmt.Fprintf(tw, "label:\t%s\n", out.Label)
		fmt.Fprintf(tw, "value:\t%s\n", out.Value)
		fmt.Fprintf(tw, "creator:\t%s\n", out.Creator)
		fmt.Fprintf(tw, "created:\t%s\n", out.CreatedAt.Local().Format(time.DateTime))
	})
}
