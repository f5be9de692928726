package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer

	userName     string
	pendingEmail string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config: c,
		client: apiClient,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.userName)
}

// requestContext bounds a single server call by the configured timeout.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) report(err error) error {
	fmt.Fprintf(a.out, "Error: %v\n", err)
	return err
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	pctx, cancel := a.requestContext(ctx)
	if err := a.client.Ping(pctx); err != nil {
		log.Printf("server %s is not reachable: %v", a.config.ServerEndpointAddr, err)
	}
	cancel()

	fmt.Fprintln(a.out, "Welcome to accountkeeper CLI (type 'help' for commands)")

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
