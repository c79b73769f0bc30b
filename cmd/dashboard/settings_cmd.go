package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Load and save the tenant settings document",
	}
	cmd.AddCommand(newSettingsGetCmd(opts))
	cmd.AddCommand(newSettingsSetCmd(opts))
	cmd.AddCommand(newSettingsPutCmd(opts))
	return cmd
}

func newSettingsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Fetch and print the settings document",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			doc, err := a.services.Settings.Fetch(cmd.Context())
			if err != nil {
				return widgetError("load settings", err)
			}
			return writeJSONPretty(cmd, doc)
		},
	}
}

type settingsEdits struct {
	persona          string
	stylePrompt      string
	tone             string
	language         string
	workingHours     string
	timezone         string
	followupEnabled  bool
	followupInterval int
	sopSteps         []string
}

// parseSopSteps reads "name:description" pairs; order follows the flags.
func parseSopSteps(raw []string) ([]model.SopStep, error) {
	steps := make([]model.SopStep, 0, len(raw))
	for i, r := range raw {
		name, desc, _ := strings.Cut(r, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("--sop-step %q has no name", r)
		}
		steps = append(steps, model.SopStep{Name: name, Description: strings.TrimSpace(desc), Order: i + 1})
	}
	return steps, nil
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var e settingsEdits

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Fetch the document, change the given fields and save it whole",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var steps []model.SopStep
			if flags.Changed("sop-step") {
				parsed, err := parseSopSteps(e.sopSteps)
				if err != nil {
					return withCode(exitUsage, err)
				}
				steps = parsed
			}

			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			svc := a.services.Settings
			if _, err := svc.Fetch(cmd.Context()); err != nil {
				return widgetError("load settings", err)
			}

			_, err = svc.Edit(func(s *model.TenantSettings) {
				if flags.Changed("persona") {
					s.Persona.Persona = e.persona
				}
				if flags.Changed("style-prompt") {
					s.Persona.StylePrompt = e.stylePrompt
				}
				if flags.Changed("tone") {
					s.Persona.Tone = e.tone
				}
				if flags.Changed("language") {
					s.Persona.Language = e.language
				}
				if flags.Changed("working-hours") {
					s.WorkingHours = e.workingHours
				}
				if flags.Changed("timezone") {
					s.Timezone = e.timezone
				}
				if flags.Changed("followup-enabled") {
					s.FollowupEnabled = e.followupEnabled
				}
				if flags.Changed("followup-interval") {
					s.FollowupIntervalMinutes = e.followupInterval
				}
				if steps != nil {
					s.Sop.Steps = steps
				}
			})
			if err != nil {
				return widgetError("save settings", err)
			}

			saved, err := svc.Save(cmd.Context())
			if err != nil {
				return widgetError("save settings", err)
			}
			return writeJSONPretty(cmd, saved)
		},
	}

	f := cmd.Flags()
	f.StringVar(&e.persona, "persona", "", "Persona description")
	f.StringVar(&e.stylePrompt, "style-prompt", "", "Style prompt")
	f.StringVar(&e.tone, "tone", "", "Tone")
	f.StringVar(&e.language, "language", "", "Reply language")
	f.StringVar(&e.workingHours, "working-hours", "", "Working hours, e.g. 08:00-17:00")
	f.StringVar(&e.timezone, "timezone", "", "IANA timezone, e.g. Asia/Jakarta")
	f.BoolVar(&e.followupEnabled, "followup-enabled", false, "Enable automatic follow-ups")
	f.IntVar(&e.followupInterval, "followup-interval", 0, "Follow-up interval in minutes")
	f.StringArrayVar(&e.sopSteps, "sop-step", nil, "SOP step as name:description, repeat in order; replaces all steps")
	return cmd
}

func newSettingsPutCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Replace the settings document with a JSON file and save it",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return withCode(exitUsage, err)
				}
				defer f.Close()
				src = f
			}
			var doc model.TenantSettings
			if err := json.NewDecoder(src).Decode(&doc); err != nil {
				return withCode(exitValidation, fmt.Errorf("invalid settings document: %w", err))
			}

			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			svc := a.services.Settings
			if _, err := svc.Fetch(cmd.Context()); err != nil {
				return widgetError("load settings", err)
			}
			if err := svc.Replace(&doc); err != nil {
				return widgetError("save settings", err)
			}
			saved, err := svc.Save(cmd.Context())
			if err != nil {
				return widgetError("save settings", err)
			}
			return writeJSONPretty(cmd, saved)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Settings JSON file, - for stdin")
	return cmd
}
