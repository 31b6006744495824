package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"calcsheet/internal/api"
	"calcsheet/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(flags *globalFlags) *cobra.Command {
	var (
		addr string
		file string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = os.Getenv(envAddr)
			}
			if addr == "" {
				addr = ":8080"
			}
			if file == "" {
				file = os.Getenv(envFile)
			}
			if save && file == "" {
				return errors.New("--save needs --file")
			}

			s, err := loadSheet(file, logger)
			if err != nil && !(save && errors.Is(err, os.ErrNotExist)) {
				return err
			}
			if s == nil {
				s, _ = loadSheet("", logger)
			}

			if !flags.debug {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.SetupRouter(s, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "file", file)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if save {
				if err := storage.Save(s.Texts(), file); err != nil {
					return err
				}
				logger.Info("sheet saved", "file", file)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080, or $"+envAddr+")")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sheet to serve (.csv or .db)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the sheet back to --file on shutdown")
	return cmd
}
