package hub

import (
	"context"
	"iter"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/example/go-slices-tokenizer/internal/downloader"
	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// IterFileNames iterate over the file names stored in the repo.
// It doesn't trigger the downloading of the repo, only of the repo info.
func (r *Repo) IterFileNames() iter.Seq2[string, error] {
	err := r.DownloadInfo(false)
	if err != nil {
		// Error downloading: yield error only.
		return func(yield func(string, error) bool) {
			yield("", err)
		}
	}
	return func(yield func(string, error) bool) {
		for _, si := range r.info.Siblings {
			fileName := si.Name
			if path.IsAbs(fileName) || strings.Contains(fileName, "..") {
				yield("", errors.Errorf("repository %q contains illegal file name %q -- it cannot be an absolute path, nor contain \"..\"",
					r.ID, fileName))
				return
			}
			if !yield(fileName, nil) {
				return
			}
		}
	}
}

// HasFile returns whether the repository lists fileName. It only downloads the repo info.
func (r *Repo) HasFile(fileName string) (bool, error) {
	for name, err := range r.IterFileNames() {
		if err != nil {
			return false, err
		}
		if name == fileName {
			return true, nil
		}
	}
	return false, nil
}

// cleanRelativeFilePath cleans filePath and strips any leading "/" or "..", so that it can
// only refer to a path inside the directory it is joined to.
func cleanRelativeFilePath(filePath string) string {
	cleaned := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(filePath)), "/")
	if cleaned == "" {
		return "."
	}
	return filepath.FromSlash(cleaned)
}

// DownloadFiles downloads the repository files, and return the path to the downloaded files in the cache structure.
// Files already in the cache are not downloaded again.
//
// The returned downloadPaths can be read, but shouldn't be modified, since there may be other programs using the same
// files.
func (r *Repo) DownloadFiles(repoFiles ...string) (downloadedPaths []string, err error) {
	if len(repoFiles) == 0 {
		return
	}
	snapshotsDir, err := r.repoSnapshotsDir()
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if r.useProgressBar {
		bar = progressbar.Default(int64(len(repoFiles)), "downloading")
		defer func() { _ = bar.Finish() }()
	}
	fileDone := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	semaphore := downloader.NewSemaphore(r.MaxParallelDownload)
	downloadedPaths = make([]string, len(repoFiles))
	for ii, fileName := range repoFiles {
		relPath := cleanRelativeFilePath(fileName)
		if relPath == "." {
			setErr(errors.Errorf("invalid file name %q for repository %q", fileName, r.ID))
			break
		}
		filePath := filepath.Join(snapshotsDir, relPath)
		downloadedPaths[ii] = filePath
		if files.Exists(filePath) {
			fileDone()
			continue
		}
		url, err := r.FileURL(relPath)
		if err != nil {
			setErr(err)
			break
		}

		semaphore.Acquire()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer semaphore.Release()
			if err := r.lockedDownload(ctx, url, filePath, false, nil); err != nil {
				setErr(errors.WithMessagef(err, "while downloading %q from repository %q", fileName, r.ID))
				return
			}
			fileDone()
			if r.Verbosity > 0 {
				if stat, err := os.Stat(filePath); err == nil {
					log.Printf("Downloaded %q from %q (%s)", fileName, r.ID, humanize.Bytes(uint64(stat.Size())))
				}
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return downloadedPaths, nil
}

// DownloadFile is a shortcut to DownloadFiles with only one file.
func (r *Repo) DownloadFile(file string) (downloadedPath string, err error) {
	res, err := r.DownloadFiles(file)
	if err != nil {
		return "", err
	}
	return res[0], nil
}
