package system

import (
	"fmt"
	"slices"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
)

var settingKeys = []string{
	constants.SettingAPIURL,
	constants.SettingTimezone,
	constants.SettingTokenBackend,
}

type SettingsCmd struct {
	List  SettingsListCmd  `cmd:"" help:"Show stored settings." default:"1"`
	Set   SettingsSetCmd   `cmd:"" help:"Store a setting."`
	Unset SettingsUnsetCmd `cmd:"" help:"Remove a stored setting."`
}

type SettingsListCmd struct{}

func (cmd *SettingsListCmd) Run(ctx *cli.Context) error {
	stored, err := ctx.DB.AllSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	effective := map[string]string{
		constants.SettingAPIURL:       ctx.Config.APIURL,
		constants.SettingTimezone:     ctx.Config.Timezone,
		constants.SettingTokenBackend: ctx.Config.TokenBackend,
	}

	rows := make([][]string, 0, len(settingKeys))
	for _, key := range settingKeys {
		v, ok := stored[key]
		if !ok {
			v = cli.Muted("(unset)")
		}
		rows = append(rows, []string{key, v, effective[key]})
	}
	if v, ok := stored[constants.SettingLastLogin]; ok {
		rows = append(rows, []string{constants.SettingLastLogin, v, v})
	}
	ctx.Printf("%s", cli.Table([]string{"KEY", "STORED", "EFFECTIVE"}, rows))
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" enum:"api_url,timezone,token_backend" help:"Setting key (api_url, timezone, token_backend)."`
	Value string `arg:"" help:"Value."`
}

func (cmd *SettingsSetCmd) Validate() error {
	cfg := config.Config{}
	switch cmd.Key {
	case constants.SettingAPIURL:
		cfg.APIURL = cmd.Value
	case constants.SettingTimezone:
		cfg.Timezone = cmd.Value
	case constants.SettingTokenBackend:
		cfg.TokenBackend = cmd.Value
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

func (cmd *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.DB.SetSetting(cmd.Key, cmd.Value); err != nil {
		return fmt.Errorf("failed to store %s: %w", cmd.Key, err)
	}
	ctx.Printf("✓ %s = %s\n", cmd.Key, cmd.Value)
	return nil
}

type SettingsUnsetCmd struct {
	Key string `arg:"" help:"Setting key."`
}

func (cmd *SettingsUnsetCmd) Validate() error {
	if cmd.Key != constants.SettingLastLogin && !slices.Contains(settingKeys, cmd.Key) {
		return fmt.Errorf("unknown setting %q", cmd.Key)
	}
	return nil
}

func (cmd *SettingsUnsetCmd) Run(ctx *cli.Context) error {
	if err := ctx.DB.DeleteSetting(cmd.Key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", cmd.Key, err)
	}
	ctx.Printf("✓ %s unset\n", cmd.Key)
	return nil
}
