package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if c.Listen == "" {
		return deps.Server.Run(deps.Ctx, &mcp.StdioTransport{})
	}

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           deps.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-deps.Ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	fmt.Fprintf(deps.Stderr, "Serving tools on http://%s\n", c.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
