package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mietrecht-backend/internal/analyses/rules"
	"mietrecht-backend/internal/classify"
	"mietrecht-backend/internal/extract"
	"mietrecht-backend/internal/guidance"
	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/policy"
	"mietrecht-backend/internal/shared/config"
	"mietrecht-backend/internal/shared/telemetry"
)

type contractReport struct {
	File      string                      `json:"file"`
	Extracted legal.ExtractedContractData `json:"extracted"`
	Issues    []legal.Issue               `json:"issues"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mietrecht",
		Short:         "Check rental contracts and answer tenancy questions offline",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			telemetry.SetOutput(cmd.ErrOrStderr())
			level, _ := cmd.Flags().GetString("log-level")
			telemetry.SetLevel(level)
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.AddCommand(newAnalyzeFileCmd(), newRespondCmd(), newCheckConfigCmd())
	return root
}

func newAnalyzeFileCmd() *cobra.Command {
	var rulesPath string
	cmd := &cobra.Command{
		Use:   "analyze-file <path>",
		Short: "Extract contract fields from a PDF, DOCX or text file and list the issues found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thresholds, err := rules.LoadThresholds(rulesPath)
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			text, err := extract.ExtractTextFromBytes(cmd.Context(), data, "", filepath.Base(path))
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			extracted := extract.ParseContract(text)
			return writeJSON(cmd.OutOrStdout(), contractReport{
				File:      filepath.Base(path),
				Extracted: extracted,
				Issues:    rules.Evaluate(extracted, thresholds),
			})
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "thresholds YAML file (defaults to the embedded thresholds)")
	return cmd
}

func newRespondCmd() *cobra.Command {
	var (
		policyPath string
		role       string
	)
	cmd := &cobra.Command{
		Use:   "respond [question]",
		Short: "Classify a question and print the generated guidance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return errors.New("question text is required")
			}

			p, err := policy.Load(policyPath)
			if err != nil {
				return err
			}
			classification, err := classify.NewKeywordClassifier().Classify(cmd.Context(), text)
			if err != nil {
				return err
			}
			scenario := guidance.Scenario{
				Classification: classification,
				Intent:         guidance.DetectIntent(text),
				Context:        guidance.Context{UserRole: legal.ParseUserRole(role)},
			}
			return writeJSON(cmd.OutOrStdout(), guidance.NewGenerator(p).GenerateResponse(scenario, text))
		},
	}
	cmd.Flags().StringVar(&policyPath, "policy", "", "content policy YAML file (defaults to the embedded policy)")
	cmd.Flags().StringVar(&role, "role", "", "tenant or landlord")
	return cmd
}

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the environment configuration the API server would start with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				var verr *config.ValidationError
				if errors.As(err, &verr) {
					for _, problem := range verr.Problems {
						fmt.Fprintf(cmd.ErrOrStderr(), "- %s\n", problem)
					}
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok (env=%s)\n", cfg.Env)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
