package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the CLI commands
var Module = fx.Module("cli",
	fx.Provide(
		asCommand(NewStreamCmd),
		asCommand(NewEndpointCmd),
		NewRootCmd,
	),
	fx.Invoke(RunCLI),
)

func asCommand(constructor any) any {
	return fx.Annotate(constructor, fx.ResultTags(`group:"commands"`))
}

// CommandParams collects every registered sub-command
type CommandParams struct {
	fx.In

	Commands []*cobra.Command `group:"commands"`
}

// NewRootCmd creates the root command
func NewRootCmd(params CommandParams) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coinbase-stream",
		Short:         "Coinbase market data streaming client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(params.Commands...)
	return rootCmd
}

// RunCLI executes the root command once the application has started and shuts
// the application down when the command returns
func RunCLI(lc fx.Lifecycle, rootCmd *cobra.Command, shutdowner fx.Shutdowner, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				exitCode := 0
				if err := rootCmd.ExecuteContext(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					exitCode = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
					logger.Error("Failed to request shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
