package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(&env.EnvService{})

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "duckduckgo", cfg.Search.Provider)
	assert.Equal(t, entity.AgentShapeExecutor, cfg.Agent.Shape)
	assert.Equal(t, 7, cfg.Runner.MaxIterations)
	assert.Equal(t, 60*time.Second, cfg.Runner.MaxExecutionTime)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("SEARCH_PROVIDER", "serper")
	t.Setenv("SERPER_API_KEY", "serper-key")
	t.Setenv("AGENT_SHAPE", "run")
	t.Setenv("MAX_ITERATIONS", "5")
	t.Setenv("MAX_EXECUTION_TIME", "90")
	t.Setenv("LLM_TEMPERATURE", "0.2")

	cfg := loadConfig(&env.EnvService{})

	assert.Equal(t, "or-key", cfg.LLM.APIKey)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "serper-key", cfg.Search.SerperAPIKey)
	assert.Equal(t, entity.AgentShapeRun, cfg.Agent.Shape)
	assert.Equal(t, 5, cfg.Runner.MaxIterations)
	assert.Equal(t, 90*time.Second, cfg.Runner.MaxExecutionTime)
}

func TestLLMAPIKey_PrefersGenericKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "generic")
	t.Setenv("OPENAI_API_KEY", "specific")

	assert.Equal(t, "generic", llmAPIKey(&env.EnvService{}, "openai"))
}

func TestExitFor(t *testing.T) {
	assert.NoError(t, exitFor(entity.Success("Paris", 1)))

	var ee *exitError
	require.ErrorAs(t, exitFor(entity.Rejected()), &ee)
	assert.Equal(t, exitRejected, ee.code)

	require.ErrorAs(t, exitFor(entity.NoValidResponse(7)), &ee)
	assert.Equal(t, exitFailure, ee.code)

	require.ErrorAs(t, exitFor(entity.Failure("timeout", 1)), &ee)
	assert.Equal(t, exitFailure, ee.code)
}

func TestAsk_EmptyQueryIsRejected(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"ask"})
	root.SetIn(strings.NewReader("   \n"))

	err := root.Execute()

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, exitRejected, ee.code)
}

func TestResolveServeFlags_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("WEB_ADDR=127.0.0.1:9999\nTHEME_FILE=custom.toml\n"), 0o644))
	t.Chdir(dir)
	for _, key := range []string{"WEB_ADDR", "THEME_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	envService := env.NewEnvService()

	cmd := newServeCmd()
	addr, themePath := defaultAddr, "config.toml"
	resolveServeFlags(cmd, envService, &addr, &themePath)
	assert.Equal(t, "127.0.0.1:9999", addr)
	assert.Equal(t, "custom.toml", themePath)

	cmd = newServeCmd()
	require.NoError(t, cmd.Flags().Set("addr", ":7000"))
	addr, themePath = ":7000", "config.toml"
	resolveServeFlags(cmd, envService, &addr, &themePath)
	assert.Equal(t, ":7000", addr)
	assert.Equal(t, "custom.toml", themePath)
}
