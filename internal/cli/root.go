package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lsudt/internal/app"
	"lsudt/internal/core"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "LSUDT"

// Exit codes. Wait timeouts get their own code so boot scripts can tell
// "device never appeared" from an outright failure.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitWaitTimeout = 3
)

type rootOptions struct {
	ShowBusNodes  bool
	ShowIDPaths   bool
	ShowEmptyHubs bool
	ShowLinks     bool
	DevicePath    string
	PortPath      string
	Label         string
	Tag           string
	IDPath        string
	ExtractEnv    bool
	WaitForEnv    []string
	TimeoutSec    int
	ConfigDir     string
	LogLevel      string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := rootOptions{}
	cmd := &cobra.Command{
		Use:     "lsudt",
		Short:   "List the USB device tree with device nodes and port labels",
		Version: version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			initConfig()
			setupLogging(viper.GetString("log_level"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(loggingContext(cmd.Context()), cmd, opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.ShowBusNodes, "show-devusb", "u", false, "Show /dev/bus/usb device nodes")
	flags.BoolVarP(&opts.ShowIDPaths, "show-idpath", "s", false, "Show udev ID_PATH next to device nodes")
	flags.BoolVarP(&opts.ShowEmptyHubs, "show-empty-hubs", "e", false, "Show hubs with nothing connected")
	flags.BoolVarP(&opts.ShowLinks, "show-device-links", "l", false, "Show udev device links")
	flags.StringVarP(&opts.DevicePath, "device-path", "d", "", "Limit output to a /sys devices subtree (a /dev node is resolved first)")
	flags.StringVarP(&opts.PortPath, "port-path", "p", "", "Limit output to devices below a port path")
	flags.StringVarP(&opts.Label, "label", "b", "", "Limit output to devices below a configured label")
	flags.StringVarP(&opts.Tag, "udev-tag", "t", "", "Limit output to devices carrying a udev tag")
	flags.StringVarP(&opts.IDPath, "udev-idpath", "i", "", "Limit output to chains matching an ID_PATH prefix")
	flags.BoolVarP(&opts.ExtractEnv, "extract-env", "x", false, "Print env tokens for labeled ports instead of the tree")
	flags.StringSliceVarP(&opts.WaitForEnv, "wait-for-env", "w", nil, "Wait until these env names resolve, then print the tokens")
	flags.IntVar(&opts.TimeoutSec, "timeout", 10, "Wait budget in seconds; negative waits forever")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "Labeling config directory (default $HOME/.lsudt)")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level")

	_ = viper.BindPFlag("show_devusb", flags.Lookup("show-devusb"))
	_ = viper.BindPFlag("show_idpath", flags.Lookup("show-idpath"))
	_ = viper.BindPFlag("show_empty_hubs", flags.Lookup("show-empty-hubs"))
	_ = viper.BindPFlag("show_device_links", flags.Lookup("show-device-links"))
	_ = viper.BindPFlag("device_path", flags.Lookup("device-path"))
	_ = viper.BindPFlag("port_path", flags.Lookup("port-path"))
	_ = viper.BindPFlag("label", flags.Lookup("label"))
	_ = viper.BindPFlag("udev_tag", flags.Lookup("udev-tag"))
	_ = viper.BindPFlag("udev_idpath", flags.Lookup("udev-idpath"))
	_ = viper.BindPFlag("extract_env", flags.Lookup("extract-env"))
	_ = viper.BindPFlag("wait_for_env", flags.Lookup("wait-for-env"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("config_dir", flags.Lookup("config-dir"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts rootOptions) error {
	service := newAppService(resolveString(cmd, opts.ConfigDir, "config_dir", "config-dir"))
	filters := app.Filters{
		DevicePath: resolveString(cmd, opts.DevicePath, "device_path", "device-path"),
		PortPath:   resolveString(cmd, opts.PortPath, "port_path", "port-path"),
		Label:      resolveString(cmd, opts.Label, "label", "label"),
		Tag:        resolveString(cmd, opts.Tag, "udev_tag", "udev-tag"),
		IDPath:     resolveString(cmd, opts.IDPath, "udev_idpath", "udev-idpath"),
	}
	showBusNodes := resolveBool(cmd, opts.ShowBusNodes, "show_devusb", "show-devusb")
	showEmptyHubs := resolveBool(cmd, opts.ShowEmptyHubs, "show_empty_hubs", "show-empty-hubs")

	waitNames := resolveStrings(cmd, opts.WaitForEnv, "wait_for_env", "wait-for-env")
	switch {
	case len(waitNames) > 0:
		result, err := service.Wait(ctx, app.WaitRequest{
			EnvRequest: app.EnvRequest{
				Filters:       filters,
				ShowBusNodes:  showBusNodes,
				ShowEmptyHubs: showEmptyHubs,
			},
			Names:      waitNames,
			TimeoutSec: resolveInt(cmd, opts.TimeoutSec, "timeout", "timeout"),
		})
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(result.Tokens, " "))
	case resolveBool(cmd, opts.ExtractEnv, "extract_env", "extract-env"):
		result, err := service.Env(ctx, app.EnvRequest{
			Filters:       filters,
			ShowBusNodes:  showBusNodes,
			ShowEmptyHubs: showEmptyHubs,
		})
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(result.Tokens, " "))
	default:
		result, err := service.Tree(ctx, app.TreeRequest{
			Filters:       filters,
			ShowBusNodes:  showBusNodes,
			ShowIDPaths:   resolveBool(cmd, opts.ShowIDPaths, "show_idpath", "show-idpath"),
			ShowEmptyHubs: showEmptyHubs,
			ShowLinks:     resolveBool(cmd, opts.ShowLinks, "show_device_links", "show-device-links"),
		})
		if err != nil {
			return err
		}
		fmt.Print(result.Output)
	}
	return nil
}

func newAppService(configDir string) app.Service {
	return app.NewService(configDir)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
}

// loggingContext attaches the configured logger to the request context.
// Core and app log through log.Ctx, which is silent on a bare context.
// Must run after setupLogging so the attached copy is the console logger.
func loggingContext(parent context.Context) context.Context {
	return log.Logger.WithContext(parent)
}

// setupLogging writes to stderr: stdout carries the tree and env output
// that callers parse.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	message := errorMessage(err)
	switch code {
	case errbuilder.CodeInvalidArgument:
		return exitUsage
	case errbuilder.CodeFailedPrecondition:
		if strings.HasPrefix(message, core.WaitTimeoutPrefix) {
			return exitWaitTimeout
		}
		return exitFailure
	default:
		return exitFailure
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
