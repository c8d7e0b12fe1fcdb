package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"forum-mirror/internal/scraper"
)

// LoadSelectors loads selector overrides from a YAML file on top of
// scraper.DefaultSelectors. An empty path returns the defaults.
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	selectors := scraper.DefaultSelectors()
	if filePath == "" {
		return selectors, nil
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("selectors file not found: %s: %w", filePath, err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close selectors file: %v\n", closeErr)
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(selectors); err != nil {
		return nil, err
	}

	return selectors, nil
}

// validateSelectors checks the minimum set needed for extraction.
func validateSelectors(s *scraper.Selectors) error {
	if s.PostRows == "" {
		return fmt.Errorf("post_rows is required")
	}
	if s.PostContent == "" {
		return fmt.Errorf("post_content is required")
	}
	if s.Pagination == "" {
		return fmt.Errorf("pagination is required")
	}
	if s.CategoryRows == "" {
		return fmt.Errorf("category_rows is required")
	}
	if s.CategoryTitle == "" {
		return fmt.Errorf("category_title is required")
	}
	return nil
}
