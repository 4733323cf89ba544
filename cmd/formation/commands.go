package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formation/pkg/entry"
	"github.com/goliatone/go-formation/pkg/prompt"
	"github.com/goliatone/go-formation/pkg/registry"
	"github.com/goliatone/go-formation/pkg/submission"
)

var errInvalidSubmission = errors.New("formation: submission is invalid")

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered field block types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range registry.DefaultTypes().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "render <form-id>",
		Short: "Render a form as HTML, optionally as if submitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sub submission.Resolver
			if len(pairs) > 0 {
				values, err := parsePairs(args[0], pairs)
				if err != nil {
					return err
				}
				sub = submission.FromValues(values)
			}
			markup, err := a.engine(entry.NewMemoryStore()).Render(cmd.Context(), args[0], sub)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), markup)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "submitted value as name=value (repeatable)")
	return cmd
}

func (a *app) submitCmd() *cobra.Command {
	var (
		pairs    []string
		dataFile string
	)
	cmd := &cobra.Command{
		Use:   "submit <form-id>",
		Short: "Validate a submission and store it when valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := url.Values{}
			if dataFile != "" {
				loaded, err := readData(dataFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				values = loaded
			}
			extra, err := parsePairs(args[0], pairs)
			if err != nil {
				return err
			}
			for key, list := range extra {
				values[key] = list
			}
			return a.submit(cmd, values)
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "set", nil, "submitted value as name=value (repeatable)")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON object of submitted values (- for stdin)")
	return cmd
}

func (a *app) fillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Fill a form interactively and submit it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := a.forms().Form(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver(cmd.OutOrStdout())
			}
			filler := prompt.New(prompt.WithDriver(driver), prompt.WithLogger(a.logger))
			values, err := filler.Fill(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.submit(cmd, values)
		},
	}
}

func (a *app) entriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries <form-id>",
		Short: "List stored entries of a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(a.cfg.Database) == "" {
				return errors.New("formation: entries need --database")
			}
			store, closeStore, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			entries, err := store.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}

type submitOutput struct {
	FormID  string              `json:"form_id"`
	Valid   bool                `json:"valid"`
	EntryID string              `json:"entry_id,omitempty"`
	Values  map[string]any      `json:"values"`
	Notices map[string][]string `json:"notices,omitempty"`
}

func (a *app) submit(cmd *cobra.Command, values url.Values) error {
	store, closeStore, err := a.store(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := a.engine(store).Submit(cmd.Context(), submission.FromValues(values))
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New("formation: no form id submitted")
	}

	out := submitOutput{
		FormID: result.FormID,
		Valid:  result.Valid,
		Values: result.Values,
	}
	if result.Entry != nil {
		out.EntryID = result.Entry.ID
	}
	for name, notices := range result.Notices {
		if out.Notices == nil {
			out.Notices = make(map[string][]string)
		}
		for _, notice := range notices {
			out.Notices[name] = append(out.Notices[name], notice.Message)
		}
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !result.Valid {
		return errInvalidSubmission
	}
	return nil
}

func parsePairs(formID string, pairs []string) (url.Values, error) {
	values := url.Values{}
	values.Set(submission.FormIDKey, formID)
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("formation: invalid --set %q, want name=value", pair)
		}
		values.Add(strings.TrimSpace(name), value)
	}
	return values, nil
}

// readData decodes a JSON object into submission values. Non-string values
// are posted as their JSON encoding, which is what repeaters expect.
func readData(path string, stdin io.Reader) (url.Values, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("formation: read data: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formation: decode data: %w", err)
	}
	values := url.Values{}
	for key, value := range raw {
		switch typed := value.(type) {
		case string:
			values.Set(key, typed)
		case nil:
		default:
			encoded, err := json.Marshal(typed)
			if err != nil {
				return nil, fmt.Errorf("formation: encode %s: %w", key, err)
			}
			values.Set(key, string(encoded))
		}
	}
	return values, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
