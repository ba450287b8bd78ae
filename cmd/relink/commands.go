package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/relink/internal/version"
	"github.com/arthur-debert/relink/pkg/cobrax/topics"
	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/matchers"
	"github.com/arthur-debert/relink/pkg/relink"
	"github.com/arthur-debert/relink/pkg/types"
)

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	b := &batchOptions{}
	cmd := &cobra.Command{
		Use:     "update <design>",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, b, relink.ModeUpdate, args[0])
		},
	}
	b.register(cmd)
	return cmd
}

func newChangeCmd(opts *globalOptions) *cobra.Command {
	b := &batchOptions{}
	cmd := &cobra.Command{
		Use:     "change <design> --to <nickname:name>",
		Short:   MsgChangeShort,
		Long:    MsgChangeLong,
		Example: MsgChangeExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, b, relink.ModeChange, args[0])
		},
	}
	b.register(cmd)
	cmd.Flags().StringVar(&b.target, "to", "", MsgFlagTo)
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newFieldsCmd(opts *globalOptions) *cobra.Command {
	var (
		match  matchFlags
		target string
	)
	cmd := &cobra.Command{
		Use:     "fields <design>",
		Short:   MsgFieldsShort,
		Long:    MsgFieldsLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			criterion, err := match.criterion(cmd, s.cfg)
			if err != nil {
				return err
			}
			evaluator := matchers.NewEvaluator(criterion)
			if err := evaluator.Err(); err != nil {
				return err
			}

			var to *types.LibID
			if target != "" {
				id, err := types.ParseLibID(target)
				if err != nil {
					return errors.Wrap(err, errors.ErrLibIDInvalid, MsgErrInvalidTarget)
				}
				to = &id
			}

			names := matchers.CandidateFieldNames(s.design, evaluator, s.resolver, to)
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, MsgNoFields)
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	match.register(cmd)
	cmd.Flags().StringVar(&target, "to", "", MsgFlagTo)
	return cmd
}

func newPolicyCmd(help *topics.Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "policy",
		Short:   MsgPolicyShort,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return help.Print(cmd.OutOrStdout(), "policy")
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			path := config.ProjectConfigFile
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, path)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			fmt.Fprintf(out, MsgVersionCommit, version.Commit)
			fmt.Fprintf(out, MsgVersionDate, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		Long:      MsgCompletionLong,
		GroupID:   "misc",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenerateCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doc.GenMan(cmd.Root(), ManHeader(), cmd.OutOrStdout())
		},
	}
}
