package cp

import (
	"fmt"
	"io"
	"strings"

	"github.com/fcoreutils/fcp/internal/platform"
)

// DerefMode selects how symlinks among the sources are treated.
type DerefMode int

const (
	// DerefCommandLine copies through a symlink's content but snapshots
	// the link itself. The default.
	DerefCommandLine DerefMode = iota
	// DerefNever recreates symlinks as symlinks.
	DerefNever
	// DerefAlways follows every symlink to its target.
	DerefAlways
)

// BackupMode selects how an existing destination is relocated before an
// overwrite.
type BackupMode int

const (
	BackupNone     BackupMode = iota
	BackupSimple              // <dst><suffix>
	BackupNumbered            // first unused <dst>.~N~
	BackupExisting            // numbered when <dst>.~1~ exists, else simple
)

// ParseBackupMode parses a backup CONTROL value, accepting the GNU
// version-control spellings.
func ParseBackupMode(s string) (BackupMode, error) {
	switch s {
	case "none", "off":
		return BackupNone, nil
	case "numbered", "t":
		return BackupNumbered, nil
	case "existing", "nil":
		return BackupExisting, nil
	case "simple", "never":
		return BackupSimple, nil
	}
	return BackupNone, fmt.Errorf("invalid backup type '%s'", s)
}

// Config is the full option set for one run. It is built once, then
// treated as read-only by every component.
type Config struct {
	Recursive   bool
	Force       bool
	Interactive bool
	NoClobber   bool
	Verbose     bool

	PreserveMode       bool
	PreserveOwnership  bool
	PreserveTimestamps bool

	Dereference DerefMode

	Link          bool // hard-link instead of copying
	SymbolicLink  bool // symlink instead of copying
	Update        bool // skip when dst is at least as new
	OneFileSystem bool // stay on the source's device

	Backup BackupMode
	Suffix string // backup suffix; "" means "~"

	Reflink platform.ReflinkMode

	TargetDirectory   string // copy everything into this directory
	NoTargetDirectory bool   // treat dst as a normal file even if a directory

	// Workers bounds the pool for parallel file batches; <= 0 picks a
	// default from GOMAXPROCS.
	Workers int

	// Stdin answers interactive prompts; Stderr carries prompts, verbose
	// lines and nothing else. Nil values mean os.Stdin / os.Stderr.
	Stdin  io.Reader
	Stderr io.Writer
}

// DefaultConfig returns the option set matching plain `cp`.
func DefaultConfig() *Config {
	return &Config{Suffix: "~"}
}

// ApplyPreserveList enables preservation flags on cfg from a comma list
// of attribute names. Attributes accepted for GNU compatibility but not
// implemented (links, context, xattr) are returned so callers can warn
// about them; unknown attributes are an error.
func ApplyPreserveList(cfg *Config, list string) ([]string, error) {
	var ignored []string
	for _, attr := range strings.Split(list, ",") {
		switch strings.TrimSpace(attr) {
		case "mode":
			cfg.PreserveMode = true
		case "ownership":
			cfg.PreserveOwnership = true
		case "timestamps":
			cfg.PreserveTimestamps = true
		case "all":
			cfg.PreserveMode = true
			cfg.PreserveOwnership = true
			cfg.PreserveTimestamps = true
		case "links", "context", "xattr":
			ignored = append(ignored, strings.TrimSpace(attr))
		case "":
		default:
			return nil, fmt.Errorf("invalid attribute '%s'", strings.TrimSpace(attr))
		}
	}
	return ignored, nil
}
