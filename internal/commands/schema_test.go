package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFlagType(t *testing.T) {
	require.Equal(t, "integer", normalizeFlagType("int64"))
	require.Equal(t, "boolean", normalizeFlagType("bool"))
	require.Equal(t, "array", normalizeFlagType("stringArray"))
	require.Equal(t, "string", normalizeFlagType("duration"))
	require.Equal(t, "string", normalizeFlagType("string"))
}

func TestTypedFlagDefault(t *testing.T) {
	require.Equal(t, true, typedFlagDefault("bool", "true"))
	require.Equal(t, 42, typedFlagDefault("int", "42"))
	require.Equal(t, "oops", typedFlagDefault("int", "oops"))
	require.Equal(t, "abc", typedFlagDefault("string", "abc"))
}

func TestIsRequiredFlag(t *testing.T) {
	reqByAnnotation := &pflag.Flag{Annotations: map[string][]string{cobra.BashCompOneRequiredFlag: {"true"}}}
	require.True(t, isRequiredFlag(reqByAnnotation))

	reqByUsage := &pflag.Flag{Usage: "Workspace id (required)"}
	require.True(t, isRequiredFlag(reqByUsage))

	notReq := &pflag.Flag{Usage: "optional flag"}
	require.False(t, isRequiredFlag(notReq))
}

func TestParseEnumValues(t *testing.T) {
	require.Equal(t, []string{"admin", "member"}, parseEnumValues("Role options: admin|member (required)"))
	require.Equal(t, []string{"admin", "member"}, parseEnumValues("Set role (admin, member)"))
	require.Nil(t, parseEnumValues("Page size (default 50, <= 200)"))
	require.Nil(t, parseEnumValues("Example only (e.g. foo, bar)"))
	require.Nil(t, parseEnumValues("Acting user id (default: $HUDDLE_USER)"))
	require.Nil(t, parseEnumValues(""))
}

func TestNormalizeEnumParts(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, normalizeEnumParts([]string{" a ", "[b]", "skip me", "1.2"}))
	require.Nil(t, normalizeEnumParts([]string{"onlyone"}))
}

func TestBuildCommandSchema_CollectsFlagsAndRequired(t *testing.T) {
	root := &cobra.Command{Use: "huddle"}
	root.PersistentFlags().String("user", "", "Acting user id")

	group := &cobra.Command{Use: "member", Short: "Members"}
	child := &cobra.Command{Use: "role", Short: "Change a member's role", RunE: func(*cobra.Command, []string) error { return nil }}
	child.Flags().String("role", "member", "Role options: admin|member (required)")
	child.Flags().StringArray("tag", nil, "Repeatable tag")
	child.Flags().String("hidden-flag", "x", "hidden")
	require.NoError(t, child.Flags().MarkHidden("hidden-flag"))
	group.AddCommand(child)
	root.AddCommand(group)

	schema := buildCommandSchema(child)
	require.Equal(t, "huddle member role", schema.Command)
	require.Equal(t, "Change a member's role", schema.Description)
	require.True(t, schema.Mutates)

	props := schema.ArgsSchema["properties"].(map[string]any)
	require.Contains(t, props, "user")
	require.Contains(t, props, "role")
	require.NotContains(t, props, "hidden-flag")

	role := props["role"].(map[string]any)
	require.Equal(t, "string", role["type"])
	require.Equal(t, "member", role["default"])
	require.Equal(t, []string{"admin", "member"}, role["enum"])

	tag := props["tag"].(map[string]any)
	require.Equal(t, "array", tag["type"])
	require.NotContains(t, tag, "default")

	required := schema.ArgsSchema["required"].([]string)
	require.Equal(t, []string{"role"}, required)
}

func TestCollectCommandSchemas_SkipsSchemaHiddenAndGroups(t *testing.T) {
	noop := func(*cobra.Command, []string) error { return nil }
	root := &cobra.Command{Use: "huddle", RunE: noop}
	schemaCmd := &cobra.Command{Use: "schema"}
	schemaCmd.AddCommand(&cobra.Command{Use: "commands", RunE: noop})
	group := &cobra.Command{Use: "channel"}
	group.AddCommand(&cobra.Command{Use: "list", RunE: noop})
	hidden := &cobra.Command{Use: "secret", Hidden: true, RunE: noop}

	root.AddCommand(schemaCmd, group, hidden)

	var out []commandArgSchema
	collectCommandSchemas(root, &out)

	require.Len(t, out, 1)
	require.Equal(t, "huddle channel list", out[0].Command)
	require.False(t, out[0].Mutates)
}

func TestSchemaCommandsCoversTree(t *testing.T) {
	c := newTestCLI(t)

	out := ok[struct {
		Commands []commandArgSchema `json:"commands"`
	}](c, "schema", "commands")

	byName := map[string]commandArgSchema{}
	for _, s := range out.Commands {
		byName[s.Command] = s
	}
	require.Contains(t, byName, "huddle workspace create")
	assert.True(t, byName["huddle workspace create"].Mutates)
	assert.True(t, byName["huddle message react"].Mutates)
	assert.False(t, byName["huddle channel list"].Mutates)
	assert.False(t, byName["huddle doctor"].Mutates)
	assert.NotContains(t, byName, "huddle schema commands")
}
