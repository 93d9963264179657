package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clientdesk/internal/client"
	"clientdesk/internal/forms"
)

var formFlags struct {
	assets  string
	timeout time.Duration
	submit  bool
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Work with dynamic form schemas",
}

var formCheckCmd = &cobra.Command{
	Use:   "check <schema>",
	Short: "Load and normalize a form schema, then print its fields",
	Long: `Load a form schema from a file or an http(s) URL, normalize it and print
the processed fields.

Examples:
  clientdesk form check forms/contact.json
  clientdesk form check --assets assets contact.yaml
  clientdesk form check https://example.com/forms/signup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFormCheck,
}

var formFillCmd = &cobra.Command{
	Use:   "fill <schema>",
	Short: "Fill a form interactively",
	Long: `Prompt for every visible field of a form, validating each answer, and print
the submitted values as JSON. With --submit the values are sent to the API
as a new client (keys name, email, phone, company, address, status).`,
	Args: cobra.ExactArgs(1),
	RunE: runFormFill,
}

func init() {
	for _, cmd := range []*cobra.Command{formCheckCmd, formFillCmd} {
		cmd.Flags().StringVar(&formFlags.assets, "assets", "", "directory relative schema names are resolved in")
		cmd.Flags().DurationVar(&formFlags.timeout, "timeout", forms.DefaultLoadTimeout, "timeout for http(s) schemas")
	}
	formFillCmd.Flags().BoolVar(&formFlags.submit, "submit", false, "create a client from the submitted values")
	formCmd.AddCommand(formCheckCmd, formFillCmd)
}

func newFormLoader() *forms.Loader {
	return forms.NewLoader(forms.LoaderOptions{
		Timeout:   formFlags.timeout,
		AssetsDir: formFlags.assets,
	})
}

func runFormCheck(cmd *cobra.Command, args []string) error {
	form, err := newFormLoader().LoadForm(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printFormSummary(cmd.OutOrStdout(), form)
	return nil
}

func printFormSummary(w io.Writer, form *forms.Form) {
	title := form.Title
	if title == "" {
		title = "Untitled form"
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	if form.Description != "" {
		fmt.Fprintln(w, dimStyle.Render(form.Description))
	}
	for _, f := range form.Fields() {
		var marks []string
		if f.Required {
			marks = append(marks, "required")
		}
		if f.Hidden {
			marks = append(marks, "hidden")
		}
		line := fmt.Sprintf("  %-16s %-9s %s", f.Key, f.Type, f.DisplayLabel())
		if len(marks) > 0 {
			line += " " + dimStyle.Render("("+strings.Join(marks, ", ")+")")
		}
		fmt.Fprintln(w, line)
	}
	s := form.Summary()
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d fields: %d visible, %d hidden, %d required", s.Total, s.Visible, s.Hidden, s.Required)))
}

func runFormFill(cmd *cobra.Command, args []string) error {
	form, err := newFormLoader().LoadForm(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if form.Title != "" {
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(form.Title))
	}

	values, err := fillForm(form, surveyPrompter{})
	if err != nil {
		return err
	}

	if !formFlags.submit {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	s := newSession()
	defer s.close(cmd)
	created, err := s.state.Create(cmd.Context(), clientInput(values))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderClient(created))
	return nil
}

// fillForm prompts for each visible field until the form submits.
func fillForm(form *forms.Form, p prompter) (map[string]any, error) {
	for _, f := range form.VisibleFields() {
		if err := promptField(form, f, p); err != nil {
			return nil, err
		}
	}

	values, err := form.Submit()
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return nil, fmt.Errorf("%s: %w", verr.Message(), err)
	}
	return values, err
}

func promptField(form *forms.Form, f forms.Field, p prompter) error {
	message := f.DisplayLabel()
	if f.Required {
		message += " *"
	}
	help := f.Placeholder

	validate := func(v any) error {
		if err := form.Set(f.Key, v); err != nil {
			return err
		}
		if !form.ValidateField(f.Key) {
			return errors.New(form.FieldError(f.Key))
		}
		return nil
	}
	validateString := func(s string) error { return validate(s) }

	current, _ := form.Value(f.Key)

	switch f.Type {
	case forms.TypeCheckbox:
		def, _ := current.(bool)
		ans, err := p.Confirm(message, help, def, func(b bool) error { return validate(b) })
		if err != nil {
			return err
		}
		return validate(ans)

	case forms.TypeSelect, forms.TypeRadio:
		if len(f.Options) == 0 {
			break
		}
		labels := make([]string, len(f.Options))
		def := 0
		for i, o := range f.Options {
			labels[i] = o.Label
			if o.Label == "" {
				labels[i] = fmt.Sprint(o.Value)
			}
			if fmt.Sprint(o.Value) == fmt.Sprint(current) {
				def = i
			}
		}
		idx, err := p.Select(message, help, labels, def)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(f.Options) {
			return fmt.Errorf("field %q: no option selected", f.Key)
		}
		return validate(f.Options[idx].Value)

	case forms.TypePassword:
		ans, err := p.Password(message, help, validateString)
		if err != nil {
			return err
		}
		return validate(ans)

	case forms.TypeTextarea:
		def, _ := current.(string)
		ans, err := p.Multiline(message, help, def, validateString)
		if err != nil {
			return err
		}
		return validate(ans)
	}

	def := ""
	if current != nil {
		def = fmt.Sprint(current)
	}
	ans, err := p.Input(message, help, def, validateString)
	if err != nil {
		return err
	}
	return validate(ans)
}

// clientInput maps submitted form values onto a client input.
func clientInput(values map[string]any) client.Input {
	str := func(key string) string {
		if v, ok := values[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}
	return client.Input{
		Name:    str("name"),
		Email:   str("email"),
		Phone:   str("phone"),
		Company: str("company"),
		Address: str("address"),
		Status:  client.Status(str("status")),
	}
}
