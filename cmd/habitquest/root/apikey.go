package root

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/ui"
)

func newAPIKeyCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "apikey <owner-id>",
		Short: "Generate an API key and the bcrypt hash to put in auth.keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := args[0]
			token, hash, err := middleware.GenerateAPIKey(owner)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"owner_id": owner,
					"api_key":  token,
					"hash":     hash,
				})
			}

			fmt.Fprintln(w, ui.Heading(ui.IconKey, "API key for "+owner))
			fmt.Fprintln(w, ui.LabelValue("Key", token))
			fmt.Fprintln(w, ui.Warn.Render(ui.IconWarn+" The key is shown once. Store it now."))
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, ui.Muted.Render("Add to the config file:"))
			fmt.Fprintf(w, "[auth.keys]\n%q = %q\n", owner, hash)
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, ui.Muted.Render("Usage:"))
			fmt.Fprintf(w, "  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/player\n", token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}
