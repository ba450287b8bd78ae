package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/fields"
	"github.com/arthur-debert/relink/pkg/matchers"
)

// matchFlags select the symbols of a batch
type matchFlags struct {
	all           bool
	ref           string
	value         string
	libID         string
	symbol        string
	caseSensitive bool
}

func (m *matchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.all, "all", false, MsgFlagAll)
	cmd.Flags().StringVar(&m.ref, "ref", "", MsgFlagRef)
	cmd.Flags().StringVar(&m.value, "value", "", MsgFlagValue)
	cmd.Flags().StringVar(&m.libID, "lib-id", "", MsgFlagLibID)
	cmd.Flags().StringVar(&m.symbol, "symbol", "", MsgFlagSymbol)
	cmd.Flags().BoolVar(&m.caseSensitive, "case-sensitive", false, MsgFlagCase)
}

// criterion builds the match criterion. At most one selector may be given;
// none means every symbol.
func (m *matchFlags) criterion(cmd *cobra.Command, cfg *config.Config) (matchers.Criterion, error) {
	c := matchers.All()
	selected := 0
	if m.all {
		selected++
	}
	if m.symbol != "" {
		id, err := uuid.Parse(m.symbol)
		if err != nil {
			return c, errors.Newf(errors.ErrInvalidInput, MsgErrInvalidSymbol, m.symbol)
		}
		c = matchers.Criterion{Kind: matchers.MatchSelection, Focus: id}
		selected++
	}
	if cmd.Flags().Changed("ref") {
		c = matchers.Criterion{Kind: matchers.MatchReference, Pattern: m.ref}
		selected++
	}
	if cmd.Flags().Changed("value") {
		c = matchers.Criterion{Kind: matchers.MatchValue, Pattern: m.value}
		selected++
	}
	if cmd.Flags().Changed("lib-id") {
		c = matchers.Criterion{Kind: matchers.MatchLibID, LibID: m.libID}
		selected++
	}
	if selected > 1 {
		return c, errors.New(errors.ErrCriterionInvalid, MsgErrCriteria)
	}

	c.CaseSensitive = cfg.Match.CaseSensitive
	if cmd.Flags().Changed("case-sensitive") {
		c.CaseSensitive = m.caseSensitive
	}
	return c, nil
}

// policyFlags override the configured field policy
type policyFlags struct {
	removeExtra     bool
	resetEmpty      bool
	resetVisibility bool
	resetEffects    bool
	resetPositions  bool
	updateFields    []string
	savePolicy      bool
}

func (p *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.removeExtra, "remove-extra", false, MsgFlagRemoveExtra)
	cmd.Flags().BoolVar(&p.resetEmpty, "reset-empty", false, MsgFlagResetEmpty)
	cmd.Flags().BoolVar(&p.resetVisibility, "reset-visibility", false, MsgFlagResetVis)
	cmd.Flags().BoolVar(&p.resetEffects, "reset-effects", false, MsgFlagResetFx)
	cmd.Flags().BoolVar(&p.resetPositions, "reset-positions", false, MsgFlagResetPos)
	cmd.Flags().StringArrayVar(&p.updateFields, "update-field", nil, MsgFlagUpdateField)
	cmd.Flags().BoolVar(&p.savePolicy, "save-policy", false, MsgFlagSavePolicy)
}

// apply layers the flags that were given on top of base
func (p *policyFlags) apply(cmd *cobra.Command, base fields.Policy) fields.Policy {
	policy := base
	flags := cmd.Flags()
	if flags.Changed("remove-extra") {
		policy.RemoveExtraFields = p.removeExtra
	}
	if flags.Changed("reset-empty") {
		policy.ResetEmptyFields = p.resetEmpty
	}
	if flags.Changed("reset-visibility") {
		policy.ResetVisibility = p.resetVisibility
	}
	if flags.Changed("reset-effects") {
		policy.ResetEffects = p.resetEffects
	}
	if flags.Changed("reset-positions") {
		policy.ResetPositions = p.resetPositions
	}
	if flags.Changed("update-field") {
		policy.UpdateFields = append([]string(nil), p.updateFields...)
	}
	return policy.Normalize()
}
