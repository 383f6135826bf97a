package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/josephlewis42/mysh/core"
	"github.com/josephlewis42/mysh/core/config"
	"github.com/josephlewis42/mysh/core/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
	loginShell  bool

	// exitStatus is the status of the last shell session.
	exitStatus int
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// loadShellConfig falls back to the built in configuration when no
// configuration path was given and none exists in the current directory.
func loadShellConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return configuration, err
}

// openEventLog returns the event logger for the configuration and a function
// to close it.
func openEventLog(configuration *config.Configuration) (*logger.Logger, func(), error) {
	if configuration.EventLog == "" {
		return logger.NewDiscardLogger(), func() {}, nil
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(fd), func() { fd.Close() }, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mysh",
	Short: "A small pipeline shell",
	Long: `Reads lines of the form

  cmd [args] [< in] [| cmd [args]]... [> out] [&]

and runs them as pipelines of host programs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadShellConfig(cmd)
		if err != nil {
			return err
		}

		eventLog, closeLog, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closeLog()

		sh := core.NewShell(configuration, eventLog.NewSession())
		defer sh.Close()

		if loginShell || strings.HasPrefix(os.Args[0], "-") {
			sh.Login()
		}

		if cmd.Flags().Changed("command") {
			exitStatus = sh.RunLine(commandLine)
			return nil
		}

		exitStatus = sh.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit")
	rootCmd.Flags().BoolVarP(&loginShell, "login", "l", false, "act as a login shell")
}
