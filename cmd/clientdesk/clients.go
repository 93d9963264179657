package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clientdesk/internal/apiclient"
	"clientdesk/internal/client"
	"clientdesk/internal/filter"
	"clientdesk/internal/notify"
	"clientdesk/internal/state"
)

var listFlags struct {
	search string
	status string
}

var inputFlags struct {
	name, email, phone, company, address, status string
}

var clientsCmd = &cobra.Command{
	Use:     "clients",
	Aliases: []string{"client"},
	Short:   "Manage clients through the API",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Long: `List clients, optionally filtered.

Examples:
  clientdesk clients list
  clientdesk clients list --search smith --status active`,
	Args: cobra.NoArgs,
	RunE: runClientsList,
}

var clientsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one client",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsGet,
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a client",
	Long: `Create a client.

Example:
  clientdesk clients create --name "Ada Lovelace" --email ada@example.com --phone +44-20-0000`,
	Args: cobra.NoArgs,
	RunE: runClientsCreate,
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a client; fields not given keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsUpdate,
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientsDelete,
}

func init() {
	clientsListCmd.Flags().StringVar(&listFlags.search, "search", "", "match name, email, company or phone")
	clientsListCmd.Flags().StringVar(&listFlags.status, "status", "all", "all, active or inactive")

	for _, cmd := range []*cobra.Command{clientsCreateCmd, clientsUpdateCmd} {
		f := cmd.Flags()
		f.StringVar(&inputFlags.name, "name", "", "client name")
		f.StringVar(&inputFlags.email, "email", "", "client email")
		f.StringVar(&inputFlags.phone, "phone", "", "client phone")
		f.StringVar(&inputFlags.company, "company", "", "company")
		f.StringVar(&inputFlags.address, "address", "", "address")
		f.StringVar(&inputFlags.status, "status", "", "active or inactive")
	}

	clientsCmd.AddCommand(clientsListCmd, clientsGetCmd, clientsCreateCmd, clientsUpdateCmd, clientsDeleteCmd)
}

// session wires the API client, the state store and the toast queue for
// one command.
type session struct {
	api    *apiclient.Client
	toasts *notify.Service
	state  *state.Store
}

func newSession() *session {
	api := apiclient.New(serverURL, apiclient.WithHTTPClient(newHTTPClient(30*time.Second)))
	toasts := notify.New(nil)
	return &session{
		api:    api,
		toasts: toasts,
		state:  state.New(api, state.Toasts(toasts), nil),
	}
}

// close prints the pending toasts and stops their timers.
func (s *session) close(cmd *cobra.Command) {
	printToasts(cmd.ErrOrStderr(), s.toasts.Toasts())
	s.toasts.Close()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid client id %q", raw)
	}
	return id, nil
}

func runClientsList(cmd *cobra.Command, _ []string) error {
	status, err := filter.ParseStatus(listFlags.status)
	if err != nil {
		return err
	}

	s := newSession()
	defer s.close(cmd)

	clients, err := s.state.Load(cmd.Context())
	if err != nil {
		return err
	}

	f := filter.NewFilterer(filter.DefaultDebounce)
	defer f.Close()
	f.SetClients(clients)
	f.Update(filter.Patch{SearchTerm: &listFlags.search, Status: &status})
	f.Flush()
	view := f.State()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderClientTable(view.Clients))
	counts := s.state.Counts()
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d of %d clients (%d active, %d inactive) · %s",
		len(view.Clients), view.Total, counts.Active, counts.Inactive, view.Filters.Summary())))
	return nil
}

func runClientsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s := newSession()
	defer s.close(cmd)

	c, err := s.api.Get(cmd.Context(), id)
	if err != nil {
		s.toasts.Error("Error", err.Error())
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderClient(c))
	return nil
}

func runClientsCreate(cmd *cobra.Command, _ []string) error {
	s := newSession()
	defer s.close(cmd)

	in := client.Input{
		Name:    inputFlags.name,
		Email:   inputFlags.email,
		Phone:   inputFlags.phone,
		Company: inputFlags.company,
		Address: inputFlags.address,
		Status:  client.Status(inputFlags.status),
	}
	created, err := s.state.Create(cmd.Context(), in)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderClient(created))
	return nil
}

func runClientsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s := newSession()
	defer s.close(cmd)

	if _, err := s.state.Load(cmd.Context()); err != nil {
		return err
	}
	current, ok := s.state.ByID(id)
	if !ok {
		s.toasts.Error("Error", apiclient.MessageForStatus(http.StatusNotFound))
		return fmt.Errorf("client %d not found", id)
	}

	in := client.Input{
		Name:    current.Name,
		Email:   current.Email,
		Phone:   current.Phone,
		Company: current.Company,
		Address: current.Address,
		Status:  current.Status,
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = inputFlags.name
	}
	if flags.Changed("email") {
		in.Email = inputFlags.email
	}
	if flags.Changed("phone") {
		in.Phone = inputFlags.phone
	}
	if flags.Changed("company") {
		in.Company = inputFlags.company
	}
	if flags.Changed("address") {
		in.Address = inputFlags.address
	}
	if flags.Changed("status") {
		in.Status = client.Status(inputFlags.status)
	}

	updated, err := s.state.Update(cmd.Context(), id, in)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderClient(updated))
	return nil
}

func runClientsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s := newSession()
	defer s.close(cmd)

	if _, err := s.state.Load(cmd.Context()); err != nil {
		return err
	}
	return s.state.Delete(cmd.Context(), id)
}
