package logsink

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// scheduleCompression queues a rotated archive for background compression.
// Shutdown waits on archiveWG so a zip in flight is never abandoned half
// written.
func (l *Logger) scheduleCompression(archivePath string) {
	l.state.archiveWG.Add(1)
	go func() {
		defer l.state.archiveWG.Done()
		if err := l.compressArchive(archivePath); err != nil {
			// The uncompressed archive stays on disk and remains subject to
			// retention, so a failed zip only costs disk space.
			l.internalLog("failed to compress archive '%s': %v\n", archivePath, err)
		}
	}()
}

// compressArchive zips a rotated log file in place, producing
// "<archive>.zip" next to it and removing the original on success.
// The zip inherits the original's mtime so retention measures the age of the
// data, not the compression time.
func (l *Logger) compressArchive(archivePath string) error {
	srcInfo, err := os.Stat(archivePath)
	if err != nil {
		return fmtErrorf("failed to stat archive '%s': %w", archivePath, err)
	}

	src, err := os.Open(archivePath)
	if err != nil {
		return fmtErrorf("failed to open archive '%s': %w", archivePath, err)
	}
	defer src.Close()

	zipPath := archivePath + zipSuffix
	tmpPath := zipPath + ".tmp"

	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmtErrorf("failed to create zip file '%s': %w", tmpPath, err)
	}

	zw := zip.NewWriter(out)

	hdr := &zip.FileHeader{
		Name:     filepath.Base(archivePath),
		Method:   zip.Deflate,
		Modified: srcInfo.ModTime(),
	}
	entry, err := zw.CreateHeader(hdr)
	if err != nil {
		zw.Close()
		out.Close()
		os.Remove(tmpPath)
		return fmtErrorf("failed to create zip entry for '%s': %w", archivePath, err)
	}

	if _, err := io.Copy(entry, src); err != nil {
		zw.Close()
		out.Close()
		os.Remove(tmpPath)
		return fmtErrorf("failed to compress '%s': %w", archivePath, err)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmtErrorf("failed to finalize zip for '%s': %w", archivePath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmtErrorf("failed to close zip file '%s': %w", tmpPath, err)
	}

	// Publish the finished zip atomically, then drop the original.
	if err := os.Rename(tmpPath, zipPath); err != nil {
		os.Remove(tmpPath)
		return fmtErrorf("failed to move zip into place '%s': %w", zipPath, err)
	}

	if err := os.Chtimes(zipPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		l.internalLog("warning - failed to preserve archive mtime on '%s': %v\n", zipPath, err)
	}

	if err := os.Remove(archivePath); err != nil {
		return fmtErrorf("failed to remove uncompressed archive '%s': %w", archivePath, err)
	}

	l.state.TotalCompressions.Add(1)
	return nil
}
