// Package hub downloads files from HuggingFace Hub repositories, typically a persisted SLICES
// tokenizer ("slices_tokenizer.json") published next to a model.
//
// Files are stored in the same cache structure used by the huggingface_hub python library
// (usually under "~/.cache/huggingface/hub"), so the cache is shared with Python programs.
package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	slicestokenizer "github.com/example/go-slices-tokenizer"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SessionId is unique and always created anew at the start of the program, and used during the life of the program.
var SessionId string

// panicf generates an error message and panics with it, in one function.
func panicf(format string, args ...any) {
	err := errors.Errorf(format, args...)
	panic(err)
}

func init() {
	sessionUUID, err := uuid.NewRandom()
	if err != nil {
		panicf("failed generating UUID for SessionId: %v", err)
	}
	SessionId = strings.ReplaceAll(sessionUUID.String(), "-", "")
}

// DefaultEndpoint is the HuggingFace Hub used if HF_ENDPOINT is not set.
const DefaultEndpoint = "https://huggingface.co"

func getEnvOr(key, defaultValue string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	return v
}

// DefaultCacheDir for HuggingFace Hub, same used by the python library.
//
// Its prefix is either `${XDG_CACHE_HOME}` if set, or `~/.cache` otherwise. Followed by `/huggingface/hub/`.
// So typically: `~/.cache/huggingface/hub/`.
func DefaultCacheDir() string {
	cacheDir := getEnvOr("XDG_CACHE_HOME", filepath.Join(os.Getenv("HOME"), ".cache"))
	return filepath.Join(cacheDir, "huggingface", "hub")
}

// DefaultHttpUserAgent returns a user agent to use with HuggingFace Hub API.
func DefaultHttpUserAgent() string {
	return fmt.Sprintf("go-slices-tokenizer/%v; golang/%s; session_id/%s",
		slicestokenizer.Version, runtime.Version(), SessionId)
}

// RepoIdSeparator is used to separate repository/model names parts when mapping to file names.
// Likely only for internal use.
const RepoIdSeparator = "--"

// RepoType supported by HuggingFace-Hub
type RepoType string

const (
	RepoTypeDataset RepoType = "datasets"
	RepoTypeSpace   RepoType = "spaces"
	RepoTypeModel   RepoType = "models"
)
