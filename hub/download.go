package hub

import (
	"context"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/example/go-slices-tokenizer/internal/files"
	"github.com/gomlx/gomlx/ml/data/downloader"
	"github.com/pkg/errors"
)

// getDownloadManager returns current downloader.Manager, or creates a new one for this Repo.
func (r *Repo) getDownloadManager() *downloader.Manager {
	if r.downloadManager == nil {
		r.downloadManager = downloader.New().MaxParallel(r.MaxParallelDownload).WithAuthToken(r.authToken)
	}
	return r.downloadManager
}

// lockedDownload url to the given filePath.
//
// If filePath exists and forceDownload is false, it is assumed to already have been correctly downloaded,
// and it returns immediately.
//
// The contents are downloaded to filePath+".downloading" and then moved to filePath, so filePath is either
// missing or complete. A filePath+".lock" file coordinates concurrent downloads of the same file, from
// this or other processes.
func (r *Repo) lockedDownload(ctx context.Context, url, filePath string, forceDownload bool, progressCallback downloader.ProgressCallback) error {
	if files.Exists(filePath) {
		if !forceDownload {
			return nil
		}
		if err := os.Remove(filePath); err != nil {
			return errors.Wrapf(err, "failed to remove %q while force-downloading %q", filePath, url)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), files.DirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(lockPath, func() {
		if files.Exists(filePath) {
			// Downloaded concurrently by someone else.
			return
		}
		tmpPath := filePath + ".downloading"
		if r.Verbosity > 1 {
			log.Printf("Downloading %q to %q", url, tmpPath)
		}
		mainErr = r.download(ctx, url, tmpPath, progressCallback)
		if mainErr != nil {
			if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
				log.Printf("Failed removing temporary file %q: %v", tmpPath, err)
			}
			mainErr = errors.WithMessagef(mainErr, "while downloading %q to %q", url, tmpPath)
			return
		}
		if err := os.Rename(tmpPath, filePath); err != nil {
			mainErr = errors.Wrapf(err, "failed to move downloaded file %q to %q", tmpPath, filePath)
			return
		}

		// The file exists now, so later calls won't need the lock.
		if err := os.Remove(lockPath); err != nil {
			log.Printf("Warning: error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to download %q", lockPath, url)
	}
	return nil
}

// download url to filePath with the Repo's downloader.Manager, and waits for it to finish.
//
// The manager reports completion only through the progress callback: the first report with finished set
// carries the result. If ctx is cancelled the transfer is cancelled, and download waits for the manager
// to acknowledge it before returning ctx's error.
func (r *Repo) download(ctx context.Context, url, filePath string, progressCallback downloader.ProgressCallback) error {
	done := make(chan error, 1)
	canceller := r.getDownloadManager().Download(url, filePath,
		func(downloadedBytes, totalBytes int64, finished bool, err error) {
			if progressCallback != nil {
				progressCallback(downloadedBytes, totalBytes, finished, err)
			}
			if !finished {
				return
			}
			select {
			case done <- err:
			default:
				// Only the first report of a finished transfer matters.
			}
		})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		canceller.Trigger()
		<-done
		return ctx.Err()
	}
}

// execOnFileLock opens the lockPath file (or creates if it doesn't yet exist), locks it, and executes the function.
// If the lockPath is already locked, it polls with a 1 to 2 seconds period (randomly), until it acquires the lock.
//
// The lockPath is not removed. It's safe to remove it from the given fn, if one knows that no new calls to
// execOnFileLock with the same lockPath is going to be made.
func execOnFileLock(lockPath string, fn func()) (err error) {
	var f *os.File
	f, err = os.OpenFile(lockPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, files.FileCreationPerm)
	if err != nil {
		return errors.Wrapf(err, "while locking %q", lockPath)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close lock file %q", lockPath)
		}
	}()

	for {
		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, syscall.EAGAIN) {
			return errors.Wrapf(err, "while locking %q", lockPath)
		}
		time.Sleep(time.Millisecond * time.Duration(1000+rand.Intn(1000)))
	}

	// Unlock even if fn panics.
	defer func() {
		if unlockErr := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); unlockErr != nil && err == nil {
			err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
		}
	}()
	fn()
	return nil
}
