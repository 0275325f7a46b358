package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"mediareview/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "mediareview"
	// Version is the version of the compiled software.
	Version string
)

type options struct {
	confPath string
	envFile  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			_, _ = failure.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           Name,
		Short:         "Review movies, web shows and songs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real environment variables take precedence
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.confPath, "conf", "configs/config.yaml", "config file or directory, eg: --conf configs/config.yaml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	root.AddCommand(
		newInitCmd(opts),
		newCreateUserCmd(opts),
		newCreateMediaCmd(opts),
		newShowUsersCmd(opts),
		newShowMediaCmd(opts),
		newReviewMediaCmd(opts),
		newShowReviewsCmd(opts),
		newBulkReviewCmd(opts),
		newSubscribeCmd(opts),
		newRecommendCmd(opts),
		newAddSampleUsersCmd(opts),
		newAddSampleMediaCmd(opts),
		newAddSampleReviewsCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// run loads configuration, wires the application and hands it to fn.
// Cleanup drains pending notifications before storage is closed.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	// the config loader logs through the global logger before log.level is known
	log.SetLogger(log.NewFilter(log.NewStdLogger(cmd.ErrOrStderr()), log.FilterLevel(log.LevelWarn)))
	bc, err := conf.Load(o.confPath)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), bc.Log)
	log.SetLogger(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(log.NewHelper(logger).Debugf)); err != nil {
		log.NewHelper(logger).Warnf("set GOMAXPROCS: %v", err)
	}

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Ingest, bc.Notify, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(cmd.Context(), app)
}

func newLogger(w io.Writer, c *conf.Log) log.Logger {
	logger := log.With(log.NewStdLogger(w),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", Name,
		"service.version", Version,
	)
	return log.NewFilter(logger, log.FilterLevel(log.ParseLevel(c.Level)))
}
