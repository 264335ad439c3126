package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songgraph/internal/graph"
	"github.com/desertthunder/songgraph/internal/services"
	"github.com/desertthunder/songgraph/internal/shared"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	counter services.Counter
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Counter services.Counter
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Counter == nil {
		songs := opts.Config.Songs
		client := &http.Client{Timeout: songs.Timeout()}
		opts.Counter = services.NewSongsService(songs.BaseURL, client, songs.RateLimit)
	}

	return &Runner{
		config:  opts.Config,
		counter: opts.Counter,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore builds the graph store named by the database config.
//
// The sqlite backend owns an embedded file database; the neo4j backend
// dials a bolt URI and verifies connectivity before returning.
func (r *Runner) openStore(ctx context.Context) (graph.Store, error) {
	dbConfig := r.config.Database

	switch dbConfig.Backend {
	case "", "sqlite":
		db, err := shared.NewDatabase(dbConfig.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, dbConfig.MaxOpenConns, dbConfig.MaxIdleConns)
		r.logger.Info("using embedded store", "path", dbConfig.Path)
		return graph.NewSQLiteStore(db), nil

	case "neo4j":
		driver, err := neo4j.NewDriverWithContext(dbConfig.Neo4jURI,
			neo4j.BasicAuth(dbConfig.Neo4jUser, dbConfig.Neo4jPass, ""))
		if err != nil {
			return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach neo4j at %s: %w", dbConfig.Neo4jURI, err)
		}
		r.logger.Info("using neo4j store", "uri", dbConfig.Neo4jURI)
		return graph.NewNeo4jStore(driver), nil

	default:
		return nil, fmt.Errorf("%w: unknown database backend %q", shared.ErrInvalidConfig, dbConfig.Backend)
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
