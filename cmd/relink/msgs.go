package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Re-link placed symbols to library templates"
	MsgUpdateShort     = "Refresh symbols from their library templates"
	MsgChangeShort     = "Retarget symbols to another library symbol"
	MsgFieldsShort     = "List field names usable in the update set"
	MsgPolicyShort     = "Explain the field policy flags"
	MsgGenConfigShort  = "Print the default configuration"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion scripts"
	MsgManShort        = "Generate the man page"

	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Run the batch but do not write the design back"
	MsgFlagConfig      = "Configuration file (default .relink.toml in the working directory)"
	MsgFlagFormat      = "Report format: auto, term, text or json"
	MsgFlagLibrary     = "Library file or directory (repeatable)"
	MsgFlagTo          = "Library identifier to retarget to (nickname:name)"
	MsgFlagAll         = "Match every symbol"
	MsgFlagRef         = "Match references against a wildcard pattern"
	MsgFlagValue       = "Match values against a wildcard pattern"
	MsgFlagLibID       = "Match an exact library identifier"
	MsgFlagSymbol      = "Match a single symbol by uuid"
	MsgFlagCase        = "Compare wildcard patterns case sensitively"
	MsgFlagRemoveExtra = "Delete fields the template does not define"
	MsgFlagResetEmpty  = "Blank fields whose template text is empty"
	MsgFlagResetVis    = "Copy field visibility from the template"
	MsgFlagResetFx     = "Copy text style from the template"
	MsgFlagResetPos    = "Move fields to the template offsets"
	MsgFlagUpdateField = "Field to keep, created from the template when missing (repeatable)"
	MsgFlagSavePolicy  = "Persist the effective policy to the user configuration"
	MsgFlagExplain     = "Print the field changes of every updated symbol"
	MsgFlagOutput      = "Write the design to this path instead of in place"
	MsgFlagWrite       = "Write config to .relink.toml instead of stdout"

	MsgVersionFormat    = "relink %s\n"
	MsgVersionCommit    = "commit: %s\n"
	MsgVersionDate      = "built:  %s\n"
	MsgDryRunNotice     = "\nDRY RUN MODE - the design was not written"
	MsgPolicySaved      = "Policy saved to %s\n"
	MsgConfigWritten    = "Wrote %s\n"
	MsgNoFields         = "No optional fields defined by the matching templates."
	MsgExplainHeader    = "\n%s (%s -> %s):\n"
	MsgExplainItem      = "  %s\n"
	MsgErrNoCommand     = "no command specified"
	MsgErrNoLibraries   = "no symbol libraries configured (use --library or library.paths)"
	MsgErrCriteria      = "only one of --all, --symbol, --ref, --value and --lib-id may be given"
	MsgErrConfigExists  = "%s already exists"
	MsgErrUnknownShell  = "unknown shell %q (bash, zsh, fish or powershell)"
	MsgErrInvalidSymbol = "invalid symbol uuid %q"
	MsgErrRenderReport  = "failed to render report"
	MsgErrInvalidTarget = "invalid --to identifier"
)

// Long messages and examples
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/update-example.txt
	msgUpdateExampleRaw string
	MsgUpdateExample    = strings.TrimRight(msgUpdateExampleRaw, "\n")

	//go:embed msgs/change-long.txt
	msgChangeLongRaw string
	MsgChangeLong    = strings.TrimSpace(msgChangeLongRaw)

	//go:embed msgs/change-example.txt
	msgChangeExampleRaw string
	MsgChangeExample    = strings.TrimRight(msgChangeExampleRaw, "\n")

	//go:embed msgs/fields-long.txt
	msgFieldsLongRaw string
	MsgFieldsLong    = strings.TrimSpace(msgFieldsLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
