package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// confirmOverwrite asks whether a non-empty output directory may be
// overwritten. When no interactive terminal is attached the prompt fails
// and the answer is treated as no.
func confirmOverwrite(dir string) (bool, error) {
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Output directory '%s' is not empty. Overwrite its contents?", dir),
		Default: false,
	}

	var overwrite bool
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, fmt.Errorf("output directory '%s' is not empty (use --force to overwrite): %w", dir, err)
	}
	return overwrite, nil
}
