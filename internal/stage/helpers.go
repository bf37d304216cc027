package stage

import (
	"fmt"
	"os"
	"strings"

	"renoquote/internal/services"
)

// RequireFile checks that path names a readable regular file. Failures are
// reported as validation or not-found errors suitable for Prepare methods.
func RequireFile(stageName, what, path string) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, stageName, "check input",
			fmt.Sprintf("%s path is required", what), nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stageName, "check input",
			fmt.Sprintf("%s not found at %s", what, path), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, stageName, "check input",
			fmt.Sprintf("%s %s is a directory", what, path), nil)
	}
	return nil
}
