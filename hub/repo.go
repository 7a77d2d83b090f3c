package hub

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/gomlx/gomlx/ml/data/downloader"
	"github.com/pkg/errors"
)

// Repo is a HuggingFace Hub repository holding tokenizer models (or training corpora, for dataset
// repositories). Files are cached locally in the layout of the python huggingface_hub library, so
// both share one cache.
//
// Build it with New and the With* methods; a Repo is not safe for concurrent configuration.
type Repo struct {
	// ID is "owner/name", e.g. "my-org/slices-bpe-1k".
	ID string

	// Verbosity: 0 is quiet, 1 logs download sizes, 2 or more logs every transfer.
	Verbosity int

	// MaxParallelDownload bounds the concurrent transfers of DownloadFiles. Zero or less means no bound.
	MaxParallelDownload int

	hfEndpoint string
	repoType   RepoType
	revision   string
	authToken  string
	cacheDir   string

	// info is loaded by DownloadInfo.
	info *RepoInfo

	downloadManager *downloader.Manager
	useProgressBar  bool
}

// New returns the model repository id at revision "main".
//
// The endpoint is $HF_ENDPOINT or DefaultEndpoint, and files are cached under DefaultCacheDir.
func New(id string) *Repo {
	hfEndpoint := strings.TrimSuffix(getEnvOr("HF_ENDPOINT", DefaultEndpoint), "/")
	return &Repo{
		ID:                  id,
		repoType:            RepoTypeModel,
		revision:            "main",
		hfEndpoint:          hfEndpoint,
		cacheDir:            DefaultCacheDir(),
		Verbosity:           1,
		MaxParallelDownload: 20,
	}
}

// WithAuth sets the bearer token sent with every request. An empty token disables authentication.
func (r *Repo) WithAuth(authToken string) *Repo {
	r.authToken = authToken
	return r
}

// WithType selects a model, dataset or space repository.
func (r *Repo) WithType(repoType RepoType) *Repo {
	r.repoType = repoType
	return r
}

// WithEndpoint overrides the Hub URL, e.g. for a mirror. An empty endpoint is ignored.
func (r *Repo) WithEndpoint(endpoint string) *Repo {
	if endpoint != "" {
		r.hfEndpoint = strings.TrimSuffix(endpoint, "/")
	}
	return r
}

// WithRevision pins a branch, tag or commit hash. An empty revision is ignored.
func (r *Repo) WithRevision(revision string) *Repo {
	if revision != "" {
		r.revision = revision
	}
	return r
}

// WithCacheDir moves the local cache, expanding a leading "~". An empty cacheDir is ignored.
func (r *Repo) WithCacheDir(cacheDir string) *Repo {
	if cacheDir == "" {
		return r
	}
	expanded, err := files.ExpandPath(cacheDir)
	if err != nil {
		log.Printf("Ignoring cache directory %q: %+v", cacheDir, err)
		return r
	}
	r.cacheDir = expanded
	return r
}

// WithDownloadManager shares a downloader.Manager, so several Repos respect the same transfer limit.
// Without it, each Repo creates its own on first download.
func (r *Repo) WithDownloadManager(manager *downloader.Manager) *Repo {
	r.downloadManager = manager
	return r
}

// WithProgressBar shows a bar counting the files fetched by DownloadFiles.
func (r *Repo) WithProgressBar(useProgressBar bool) *Repo {
	r.useProgressBar = useProgressBar
	return r
}

// CacheDir returns the root of the cache directory used by the Repo.
func (r *Repo) CacheDir() string {
	return r.cacheDir
}

// flatFolderName is the cache folder of the repository, e.g. "models--my-org--slices-bpe".
func (r *Repo) flatFolderName() string {
	parts := []string{string(r.repoType)}
	parts = append(parts, strings.Split(r.ID, "/")...)
	return strings.Join(parts, RepoIdSeparator)
}

// repoCacheDir creates and returns the cache folder of the repository.
func (r *Repo) repoCacheDir() (string, error) {
	dir := filepath.Join(r.cacheDir, r.flatFolderName())
	if err := os.MkdirAll(dir, files.DirCreationPerm); err != nil {
		return "", errors.Wrapf(err, "creating cache directory %q", dir)
	}
	return dir, nil
}

// FileURL of fileName at the commit the revision currently points to.
func (r *Repo) FileURL(fileName string) (string, error) {
	commitHash, err := r.readCommitHashForRevision()
	if err != nil {
		return "", err
	}
	fileName = filepath.ToSlash(cleanRelativeFilePath(fileName))
	if r.repoType == RepoTypeModel {
		return fmt.Sprintf("%s/%s/resolve/%s/%s", r.hfEndpoint, r.ID, commitHash, fileName), nil
	}
	return fmt.Sprintf("%s/%s/%s/resolve/%s/%s", r.hfEndpoint, r.repoType, r.ID, commitHash, fileName), nil
}

// readCommitHashForRevision returns the commit-hash for the revision, from the repository info.
func (r *Repo) readCommitHashForRevision() (string, error) {
	err := r.DownloadInfo(false)
	if err != nil {
		return "", err
	}
	if r.info.CommitHash == "" {
		return "", errors.Errorf("repository %q info has no commit hash for revision %q", r.ID, r.revision)
	}
	return r.info.CommitHash, nil
}

// repoSnapshotsDir returns the snapshots directory for this repo at its revision.
func (r *Repo) repoSnapshotsDir() (string, error) {
	cacheDir, err := r.repoCacheDir()
	if err != nil {
		return "", err
	}
	commitHash, err := r.readCommitHashForRevision()
	if err != nil {
		return "", err
	}
	snapshotsDir := filepath.Join(cacheDir, "snapshots", commitHash)
	if err = os.MkdirAll(snapshotsDir, files.DirCreationPerm); err != nil {
		return "", errors.Wrapf(err, "while creating snapshots directory %q", snapshotsDir)
	}
	return snapshotsDir, nil
}

// String implements fmt.Stringer.
func (r *Repo) String() string {
	return r.ID
}
