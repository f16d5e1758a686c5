package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/frahmantamala/dashboard-portal/pkg/client"
	"github.com/frahmantamala/dashboard-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	clientBaseURL  string
	clientEmail    string
	clientPassword string
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Talk to a running portal as a user",
}

var clientProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the dashboards granted to the given account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if clientPassword == "" {
			clientPassword = os.Getenv("PORTAL_PASSWORD")
		}
		if clientEmail == "" || clientPassword == "" {
			return fmt.Errorf("--email and --password (or PORTAL_PASSWORD) are required")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		c := client.New(client.Config{BaseURL: clientBaseURL}, logger.LoggerWrapper())
		if _, err := c.Login(ctx, clientEmail, clientPassword); err != nil {
			return err
		}
		defer func() {
			if err := c.Logout(context.Background()); err != nil {
				logger.LoggerWrapper().Warn("logout failed", "error", err)
			}
		}()

		projects, err := c.MyProjects(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOMPANY\tNAME\tDASHBOARD")
		for _, p := range projects {
			company := p.CompanyID
			if p.Company != nil {
				company = p.Company.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, company, p.Name, p.DashboardURL)
		}
		return tw.Flush()
	},
}

func init() {
	clientCmd.PersistentFlags().StringVar(&clientBaseURL, "url", "http://localhost:5000", "portal base URL")
	clientCmd.PersistentFlags().StringVar(&clientEmail, "email", "", "account email")
	clientCmd.PersistentFlags().StringVar(&clientPassword, "password", "", "account password")

	clientCmd.AddCommand(clientProjectsCmd)
}
