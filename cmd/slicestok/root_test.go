package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-slices-tokenizer/internal/config"
	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = `Ga Bi Bi S S S S Cl 0 3 --o 0 5 oo- 0 6 o--
Li Na K 1 2 +++ 1 3 --- 2 4 ooo
`

// run executes the command line with args, and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = ""
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level=error", "--train-progress=false"}, args...))
	err := root.Execute()
	return out.String(), err
}

// trainModel trains a tokenizer on testCorpus and returns the path of the saved model.
func trainModel(t *testing.T, fileName string) string {
	t.Helper()
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpus), 0o644))
	modelPath := filepath.Join(dir, fileName)
	out, err := run(t, "train", "--corpus", corpusPath, "--model-path", modelPath)
	require.NoError(t, err)
	assert.Equal(t, "trained 24 symbols (4 merges), saved to "+modelPath+"\n", out)
	return modelPath
}

func TestNewRootCmdHasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	for _, name := range []string{"train", "encode", "decode", "stats", "fetch"} {
		assert.Contains(t, names, name)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("model-path"))
}

func TestParseLogLevel(t *testing.T) {
	for levelStr, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := parseLogLevel(levelStr)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseLogLevel("not-a-level")
	assert.Error(t, err)
	setupLogger("not-a-level")
}

func TestRequireConfig(t *testing.T) {
	orig := activeCfg
	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{}
	_, err := requireConfig()
	assert.Error(t, err)

	activeCfg = config.DefaultConfig()
	cfg, err := requireConfig()
	require.NoError(t, err)
	assert.Equal(t, "slices_tokenizer.json", cfg.Model.Path)
}

func TestTrainEncodeDecode(t *testing.T) {
	for _, fileName := range []string{"tokenizer.json", "tokenizer.yaml"} {
		t.Run(fileName, func(t *testing.T) {
			modelPath := trainModel(t, fileName)

			out, err := run(t, "encode", "--model-path", modelPath, "--offsets", "--", "Ga Bi", "--o", "oo-", "+oo")
			require.NoError(t, err)
			assert.Equal(t, "tokens: G a Bi -- o oo - + oo\n"+
				"ids: 0 1 22 20 10 21 9 18 21\n"+
				"offsets: 0:1 1:2 3:5 6:8 8:9 10:12 12:13 14:15 15:17\n", out)

			out, err = run(t, "decode", "--model-path", modelPath, "0", "1", "22", "20", "10", "21", "9", "18", "21")
			require.NoError(t, err)
			assert.Equal(t, "Ga Bi --o oo- +oo\n", out)
		})
	}
}

func TestTrainErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "train", "--model-path", filepath.Join(dir, "tok.json"))
	assert.ErrorIs(t, err, api.ErrInvalidConfig)

	_, err = run(t, "train", "--corpus", filepath.Join(dir, "missing.txt"), "--model-path", filepath.Join(dir, "tok.json"))
	assert.ErrorIs(t, err, api.ErrIOFailure)

	corpusPath := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpus), 0o644))
	_, err = run(t, "train", "--corpus", corpusPath, "--train-vocab-size=-1")
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestEncodeUnresolved(t *testing.T) {
	modelPath := trainModel(t, "tokenizer.json")
	out, err := run(t, "encode", "--model-path", modelPath, "Ga X")
	assert.ErrorIs(t, err, api.ErrUnresolvedSymbol)
	assert.Contains(t, out, "ids: 0 1 -1\n")
}

func TestDecodeErrors(t *testing.T) {
	modelPath := trainModel(t, "tokenizer.json")
	_, err := run(t, "decode", "--model-path", modelPath, "0", "999")
	assert.ErrorIs(t, err, api.ErrUnknownID)
	_, err = run(t, "decode", "--model-path", modelPath, "zero")
	require.Error(t, err)
	assert.NotErrorIs(t, err, api.ErrUnknownID)
	assert.Contains(t, err.Error(), `invalid id "zero"`)

	_, err = run(t, "decode", "--model-path", filepath.Join(t.TempDir(), "missing.json"), "0")
	assert.ErrorIs(t, err, api.ErrIOFailure)
}

func TestStats(t *testing.T) {
	modelPath := trainModel(t, "tokenizer.json")
	out, err := run(t, "stats", "--model-path", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "vocabulary size: 24 (target 1,000)\n")
	assert.Contains(t, out, "element tokens: 8\n")
	assert.Contains(t, out, "number tokens: 7\n")
	assert.Contains(t, out, "merges: 4\n")
	assert.NotContains(t, out, "sample bonds")
}

func TestFetch(t *testing.T) {
	_, err := run(t, "fetch")
	assert.ErrorIs(t, err, api.ErrInvalidConfig)

	// Seed the cache, so no network is needed.
	const commitHash = "00112233445566778899"
	modelPath := trainModel(t, "tokenizer.json")
	cacheDir := t.TempDir()
	repoDir := filepath.Join(cacheDir, "models--my-org--slices-bpe")
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "info"), 0o755))
	info := `{"id": "my-org/slices-bpe", "sha": "` + commitHash + `", "siblings": [{"rfilename": "slices_tokenizer.json"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "info", "main"), []byte(info), 0o644))
	content, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	snapshotDir := filepath.Join(repoDir, "snapshots", commitHash)
	require.NoError(t, os.MkdirAll(snapshotDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(snapshotDir, "slices_tokenizer.json"), content, 0o644))

	installPath := filepath.Join(t.TempDir(), "installed.yaml")
	out, err := run(t, "fetch", "--hub-repo", "my-org/slices-bpe", "--hub-cache-dir", cacheDir,
		"--hub-endpoint", "http://127.0.0.1:1", "--install", "--model-path", installPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, filepath.Join(snapshotDir, "slices_tokenizer.json"), lines[0])
	assert.Equal(t, "installed to "+installPath, lines[1])

	out, err = run(t, "decode", "--model-path", installPath, "22")
	require.NoError(t, err)
	assert.Equal(t, "Bi\n", out)
}
