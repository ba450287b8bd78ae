package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/design"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/library"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/relink"
	"github.com/arthur-debert/relink/pkg/report"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/arthur-debert/relink/pkg/undo"
)

// session is the state a command works on: merged configuration, the
// library resolver and the loaded design
type session struct {
	cfg      *config.Config
	resolver *library.Resolver
	design   *types.Schematic
	path     string
}

func openSession(opts *globalOptions, designPath string) (*session, error) {
	logger := logging.GetLogger("cli")

	cfg, err := config.Load(config.Options{ConfigFile: opts.configFile})
	if err != nil {
		return nil, err
	}
	logger.Debug().Strs("sources", cfg.Sources).Msg("Configuration loaded")

	paths := append(append([]string(nil), cfg.Library.Paths...), opts.libraries...)
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, MsgErrNoLibraries)
	}
	store, err := library.LoadPaths(paths)
	if err != nil {
		return nil, err
	}

	sch, err := design.Load(designPath)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		resolver: library.NewResolver(store),
		design:   sch,
		path:     designPath,
	}, nil
}

// reportFormat picks the --format flag over the configured format and
// resolves auto against the destination
func (s *session) reportFormat(flag string, w io.Writer) (report.Format, error) {
	var (
		format report.Format
		err    error
	)
	if flag != "" {
		format, err = report.ParseFormat(flag)
	} else {
		format, err = s.cfg.ReportFormat()
	}
	if err != nil {
		return format, err
	}
	if f, ok := w.(*os.File); ok {
		return format.Resolve(f), nil
	}
	if format == report.FormatAuto {
		return report.FormatText, nil
	}
	return format, nil
}

// batchOptions are the per-command settings of update and change
type batchOptions struct {
	match   matchFlags
	policy  policyFlags
	target  string
	explain bool
	output  string
}

func (b *batchOptions) register(cmd *cobra.Command) {
	b.match.register(cmd)
	b.policy.register(cmd)
	cmd.Flags().BoolVar(&b.explain, "explain", false, MsgFlagExplain)
	cmd.Flags().StringVarP(&b.output, "output", "o", "", MsgFlagOutput)
}

// logNotifier traces redraw notifications; the CLI has no canvas
type logNotifier struct {
	logger zerolog.Logger
}

func (n logNotifier) Notify(symbol *types.Symbol) {
	n.logger.Trace().Str("symbol", symbol.UUID.String()).Str("lib_id", symbol.LibID.String()).Msg("Symbol changed")
}

func runBatch(cmd *cobra.Command, opts *globalOptions, b *batchOptions, mode relink.Mode, designPath string) error {
	logger := logging.GetLogger("cli")

	s, err := openSession(opts, designPath)
	if err != nil {
		return err
	}

	criterion, err := b.match.criterion(cmd, s.cfg)
	if err != nil {
		return err
	}
	req := relink.Request{
		Criterion: criterion,
		Mode:      mode,
		NewLibID:  b.target,
		Policy:    b.policy.apply(cmd, s.cfg.FieldPolicy()),
	}

	out := cmd.OutOrStdout()
	format, err := s.reportFormat(opts.format, out)
	if err != nil {
		return err
	}

	history := undo.NewStack()
	engine := relink.New(s.resolver,
		relink.WithUndo(history),
		relink.WithNotifier(logNotifier{logger: logger}),
		relink.WithLogger(logging.GetLogger("relink")),
		relink.WithDryRun(opts.dryRun),
	)

	result := engine.Run(s.design, req)
	if result.Aborted != nil {
		return result.Aborted
	}
	logger.Debug().Int("transactions", history.Len()).Msg("Undo history recorded")

	if err := report.Render(out, result.Report, result.Changed, format); err != nil {
		return errors.Wrap(err, errors.ErrInternal, MsgErrRenderReport)
	}
	if b.explain && format != report.FormatJSON {
		explain(out, result)
	}

	if opts.dryRun {
		if format != report.FormatJSON {
			fmt.Fprintln(cmd.ErrOrStderr(), MsgDryRunNotice)
		}
		return nil
	}

	if result.Changed || b.output != "" {
		dest := s.path
		if b.output != "" {
			dest = b.output
		}
		if err := design.Save(dest, s.design); err != nil {
			return err
		}
		logger.Info().Str("path", dest).Msg("Design written")
	}

	if b.policy.savePolicy {
		path := config.UserConfigPath()
		if err := config.SavePolicy(path, req.Policy); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), MsgPolicySaved, path)
	}
	return nil
}

// explain lists the field changes of every updated symbol
func explain(w io.Writer, result relink.Result) {
	for _, o := range result.Outcomes {
		if o.Status != relink.StatusUpdated || len(o.Changes) == 0 {
			continue
		}
		fmt.Fprintf(w, MsgExplainHeader, o.References, o.OldID, o.NewID)
		for _, c := range o.Changes {
			fmt.Fprintf(w, MsgExplainItem, c.String())
		}
	}
}
