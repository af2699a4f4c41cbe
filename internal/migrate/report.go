package migrate

import (
	"fmt"
	"io"
	"path/filepath"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
)

// WriteReport prints the status lines of a successful run:
//
//	✅ Created new-content.json with updated CV data!
//	📝 Updated: Personal info, skills, stats
//	⏭️  Next: Run part 2 to update projects, timeline, education, achievements
//
// The last line is omitted when the set has no follow-up hint.
func WriteReport(w io.Writer, output string, set *overwrite.Set) error {
	if _, err := fmt.Fprintf(w, "✅ Created %s with updated CV data!\n", filepath.Base(output)); err != nil {
		return reportError(err)
	}
	if _, err := fmt.Fprintf(w, "📝 Updated: %s\n", set.Summary); err != nil {
		return reportError(err)
	}
	if set.Next == "" {
		return nil
	}
	if _, err := fmt.Fprintf(w, "⏭️  Next: %s\n", set.Next); err != nil {
		return reportError(err)
	}
	return nil
}

func reportError(err error) error {
	return errors.RuntimeError("cannot print report").WithCause(err).Build()
}
