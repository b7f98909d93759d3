package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvApiUrl, "https://housing.example/graphql")
	t.Setenv(EnvDiscordWebhookUrl, "https://discord.example/api/webhooks/1/abc")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, "https://housing.example/graphql", cfg.ApiUrl)
	require.Equal(t, "https://discord.example/api/webhooks/1/abc", cfg.DiscordWebhookUrl)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Nil(t, cfg.Notify.Smtp)
}

func TestLoadMissingApiUrl(t *testing.T) {
	t.Setenv(EnvApiUrl, "")
	t.Setenv(EnvDiscordWebhookUrl, "")

	_, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "config.json5")})
	var target *ConfigurationError
	require.ErrorAs(t, err, &target)
	require.Equal(t, EnvApiUrl, target.Key)
}

func TestLoadWebhookIsOptional(t *testing.T) {
	t.Setenv(EnvApiUrl, "https://housing.example/graphql")
	t.Setenv(EnvDiscordWebhookUrl, "")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, cfg.DiscordWebhookUrl)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json5")
	writeFile(t, configPath, `{
		api_url: "https://file.example/graphql",
		discord_webhook_url: "https://discord.example/from-file",
		request_timeout: "10s",
		search: {
			locations: [{parent: "Oslo", children: ["Sentrum"]}],
			available_within_days: 14,
			show_unavailable: true,
		},
		notify: {message: "Go look!"},
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{request_timeout: "5s"}`)
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "DISCORD_WEBHOOK_URL=https://discord.example/from-dotenv\n")

	// the environment wins over every file
	t.Setenv(EnvApiUrl, "https://env.example/graphql")
	t.Setenv(EnvDiscordWebhookUrl, "")
	os.Unsetenv(EnvDiscordWebhookUrl)

	cfg, err := Load(LoadOptions{ConfigPath: configPath, EnvFile: envPath})
	require.NoError(t, err)
	require.Equal(t, "https://env.example/graphql", cfg.ApiUrl)
	require.Equal(t, "https://discord.example/from-dotenv", cfg.DiscordWebhookUrl)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, "Go look!", cfg.Notify.Message)
	require.Equal(t, 14, cfg.Search.AvailableWithinDays)
	require.Equal(t, []LocationConfig{{Parent: "Oslo", Children: []string{"Sentrum"}}}, cfg.Search.Locations)
	require.NotNil(t, cfg.Search.ShowUnavailable)
	require.True(t, *cfg.Search.ShowUnavailable)
}

func TestLoadInvalid(t *testing.T) {
	table := []struct {
		name   string
		config string
		key    string
	}{
		{name: "bad url", config: `{api_url: "housing.example"}`, key: EnvApiUrl},
		{name: "bad timeout", config: `{api_url: "https://h.example", request_timeout: "soon"}`, key: "request_timeout"},
		{name: "negative timeout", config: `{api_url: "https://h.example", request_timeout: "-1s"}`, key: "request_timeout"},
		{name: "smtp without server", config: `{api_url: "https://h.example", notify: {smtp: {to: ["a@b.c"]}}}`, key: "notify.smtp.server"},
		{name: "smtp without recipients", config: `{api_url: "https://h.example", notify: {smtp: {server: "smtp.b.c"}}}`, key: "notify.smtp.to"},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			t.Setenv(EnvApiUrl, "")
			path := filepath.Join(t.TempDir(), "config.json5")
			writeFile(t, path, row.config)

			_, err := Load(LoadOptions{ConfigPath: path})
			var target *ConfigurationError
			require.ErrorAs(t, err, &target)
			require.Equal(t, row.key, target.Key)
		})
	}
}

func TestLoadSmtpDefaults(t *testing.T) {
	t.Setenv(EnvApiUrl, "https://housing.example/graphql")
	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{notify: {smtp: {server: "smtp.example.com", to: ["me@example.com"]}}}`)

	cfg, err := Load(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	require.Equal(t, 587, cfg.Notify.Smtp.Port)
}

func TestLoadUnreadableConfig(t *testing.T) {
	t.Setenv(EnvApiUrl, "https://housing.example/graphql")
	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{api_url: `)

	_, err := Load(LoadOptions{ConfigPath: path})
	require.Error(t, err)
	var target *ConfigurationError
	require.False(t, errors.As(err, &target))
}
