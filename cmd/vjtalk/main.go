package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/vjtalk/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()
	r := &runner{flags: flags, logger: zap.NewNop().Sugar()}

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, cli.Handlers{
		GUI:        r.runGUI,
		Translate:  r.runTranslate,
		Voice:      r.runVoice,
		Converse:   r.runConverse,
		Speak:      r.runSpeak,
		Detect:     r.runDetect,
		ListModels: r.runListModels,
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		cli.LoadDotEnv()

		creds, err := cli.LoadCredentials()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			creds = &cli.Credentials{}
		}
		r.creds = creds
		r.warning = creds.MissingKeyWarning(viper.GetString("translation.provider"))
		r.logger = cli.NewLogger(flags.Verbose)
	})

	// Execute command
	err := rootCmd.Execute()
	_ = r.logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
