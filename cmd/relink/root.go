package cli

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/relink/internal/version"
	"github.com/arthur-debert/relink/pkg/cobrax/topics"
	"github.com/arthur-debert/relink/pkg/logging"
)

//go:embed topics/*.md
var topicFiles embed.FS

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity  int
	dryRun     bool
	configFile string
	format     string
	libraries  []string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "relink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringArrayVarP(&opts.libraries, "library", "L", nil, MsgFlagLibrary)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	help := loadTopics()

	rootCmd.AddCommand(newUpdateCmd(opts))
	rootCmd.AddCommand(newChangeCmd(opts))
	rootCmd.AddCommand(newFieldsCmd(opts))
	rootCmd.AddCommand(newPolicyCmd(help))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	help.Install(rootCmd)

	return rootCmd
}

// loadTopics reads the embedded help topics. The files are compiled in, so a
// failure here is a build defect and an empty manager is returned.
func loadTopics() *topics.Manager {
	sub, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		var m *topics.Manager
		m, err = topics.Load(sub, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
		if err == nil {
			return m
		}
	}
	log.Warn().Err(err).Msg("Help topics unavailable")
	empty, _ := topics.Load(embed.FS{}, topics.Options{})
	return empty
}
