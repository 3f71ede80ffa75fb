package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dissect/pkg/api"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxSides int
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve sampling and flip sessions over HTTP",
		Long: `Serve sampling and flip sessions over HTTP.

  GET    /v1/paths/random?arity=&length=
  POST   /v1/paths/decode
  GET    /v1/dissections/random?sides=
  POST   /v1/dissections/validate
  POST   /v1/dissections/next
  POST   /v1/sessions
  GET    /v1/sessions/{id}
  POST   /v1/sessions/{id}/flip/{index}
  GET    /v1/sessions/{id}/plot
  GET    /v1/sessions/{id}/svg
  DELETE /v1/sessions/{id}

Flip sessions live in memory and are dropped after --session-ttl of
inactivity.`,
		Example: `  dissect serve --addr :8080
  curl -s 'localhost:8080/v1/dissections/random?sides=8'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			addr = stringFlag(cmd, "addr", addr, c.Config.Serve.Addr)

			opts := api.DefaultOptions()
			opts.SessionTTL = ttl
			opts.Cache = c.artifactCache()
			if cmd.Flags().Changed("max-sides") {
				opts.MaxSides = maxSides
			}

			srv := api.New(opts, nil, loggerFromContext(ctx))
			printInfo("listening on %s", StyleHighlight.Render(addr))
			printNextStep("Try", "curl -s 'localhost"+addr+"/v1/dissections/random?sides=8'")
			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			printSuccess("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxSides, "max-sides", 100_000, "largest polygon a request may ask for")
	cmd.Flags().DurationVar(&ttl, "session-ttl", 30*time.Minute, "idle time before a flip session is dropped")
	return cmd
}
