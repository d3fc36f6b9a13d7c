// Package commands implements the CLI commands. Each Run function takes its
// dependencies explicitly so it can be exercised without a container.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/PrLayt0n/FiLeaked/internal/app"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

// IOTuple holds the reader and writer a command talks to.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns stdin and stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer shuts the container down and logs any error.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// resolveFileType prefers an explicit --type over the input's extension.
func resolveFileType(explicit, path string) (fingerprintDomain.FileType, error) {
	if explicit != "" {
		return fingerprintDomain.ParseFileType(explicit)
	}
	return fingerprintDomain.DetectFileType(path, "")
}

// ParseCopyRefs returns the copy references for a distribution: either an
// explicit comma separated list, or 1..copies when the list is empty.
// Exactly one of the two must be given.
func ParseCopyRefs(copies int, copyIDs string) ([]uint64, error) {
	copyIDs = strings.TrimSpace(copyIDs)
	switch {
	case copyIDs != "" && copies > 0:
		return nil, fmt.Errorf("use either --copies or --copy-ids, not both")
	case copyIDs == "" && copies <= 0:
		return nil, fmt.Errorf("--copies must be positive or --copy-ids must be set")
	}

	if copyIDs == "" {
		refs := make([]uint64, copies)
		for i := range refs {
			refs[i] = uint64(i + 1)
		}
		return refs, nil
	}

	parts := strings.Split(copyIDs, ",")
	refs := make([]uint64, 0, len(parts))
	seen := make(map[uint64]struct{}, len(parts))
	for _, part := range parts {
		ref, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || ref == 0 {
			return nil, fmt.Errorf("%w: copy id %q", fingerprintDomain.ErrInvalidIdentifier, part)
		}
		if _, dup := seen[ref]; dup {
			return nil, fmt.Errorf("%w: duplicate copy id %d", fingerprintDomain.ErrInvalidIdentifier, ref)
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs, nil
}

func outputJSON(w io.Writer, v []byte) {
	_, _ = fmt.Fprintln(w, string(v))
}
