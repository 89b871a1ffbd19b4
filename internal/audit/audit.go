package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ArchiveChat groups raw assistant exchanges.
const ArchiveChat = "chat"

// Auditor archives raw payloads, such as assistant proposals, as JSON files
// under dir/<kind>/. Names start with a UTC timestamp so a directory listing
// is chronological; the UUID suffix keeps them unique.
type Auditor struct {
	dir string
	now func() time.Time
}

func NewAuditor(dir string) *Auditor {
	return &Auditor{dir: dir, now: time.Now}
}

// Archive writes data as indented JSON and returns its path relative to the
// archive root. Nothing is written when data cannot be encoded.
func (a *Auditor) Archive(kind string, data any) (string, error) {
	if kind == "" {
		kind = "misc"
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s archive: %w", kind, err)
	}

	target := filepath.Join(a.dir, kind)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", a.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	if err := os.WriteFile(filepath.Join(target, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s archive: %w", kind, err)
	}

	rel := filepath.Join(kind, name)
	slog.Debug("Archived payload", "kind", kind, "path", rel)
	return rel, nil
}
