package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/pkg/errors"
)

// RepoInfo holds information about a HuggingFace repo, it is the json served when hitting the URL
// https://huggingface.co/api/<repo_type>/<model_id>/revision/<revision>
//
// Only the fields used by the library are parsed.
type RepoInfo struct {
	ID         string      `json:"id"`
	ModelID    string      `json:"model_id"`
	Author     string      `json:"author"`
	CommitHash string      `json:"sha"`
	Tags       []string    `json:"tags"`
	Siblings   []*FileInfo `json:"siblings"`
}

// FileInfo represents one of the repository files, in the Info structure.
type FileInfo struct {
	Name string `json:"rfilename"`
}

// Info returns the RepoInfo structure about the repository.
//
// If it hasn't been downloaded or loaded from the cache yet, it loads it first.
//
// It may return nil if there was an issue with the downloading of the RepoInfo json from HuggingFace.
// Try DownloadInfo to get an error.
func (r *Repo) Info() *RepoInfo {
	if r.info == nil {
		err := r.DownloadInfo(false)
		if err != nil {
			log.Printf("Error while downloading info about Repo: %+v", err)
		}
	}
	return r.info
}

// infoURL for the API that returns the info about a repository.
func (r *Repo) infoURL() string {
	return fmt.Sprintf("%s/api/%s/%s/revision/%s", r.hfEndpoint, r.repoType, r.ID, r.revision)
}

// infoFilePath where the repository info for the current revision is cached.
func (r *Repo) infoFilePath() (string, error) {
	cacheDir, err := r.repoCacheDir()
	if err != nil {
		return "", err
	}
	infoDir := filepath.Join(cacheDir, "info")
	if err = os.MkdirAll(infoDir, files.DirCreationPerm); err != nil {
		return "", errors.Wrapf(err, "while creating info directory %q", infoDir)
	}
	return filepath.Join(infoDir, r.revision), nil
}

// DownloadInfo about the repository, if it hasn't yet.
//
// It will attempt to use the info file in the cache directory first.
//
// If forceDownload is set to true, it ignores the current info or the cached one, and download it again from HuggingFace.
func (r *Repo) DownloadInfo(forceDownload bool) error {
	if r.info != nil && !forceDownload {
		return nil
	}

	infoFilePath, err := r.infoFilePath()
	if err != nil {
		return err
	}
	if !files.Exists(infoFilePath) || forceDownload {
		err := r.lockedDownload(context.Background(), r.infoURL(), infoFilePath, forceDownload, nil)
		if err != nil {
			return errors.WithMessagef(err, "failed to download repository info")
		}
	}

	infoJson, err := files.ReadFile(infoFilePath)
	if err != nil {
		return errors.WithMessagef(err, "remove the file if you want to have it re-downloaded")
	}
	newInfo := &RepoInfo{}
	if err = json.Unmarshal(infoJson, newInfo); err != nil {
		return errors.Wrapf(err, "failed to parse info for repository in %q (downloaded from %q)",
			infoFilePath, r.infoURL())
	}
	r.info = newInfo
	return nil
}
