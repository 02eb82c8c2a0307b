// Package validation holds typed input validation helpers shared by services
// and handlers.
package validation

import (
	"fmt"
	"strings"
)

const (
	// MaxPostTextLen bounds post bodies; matches the column type, not a UI rule.
	MaxPostTextLen = 40000
	// MaxCommentTextLen bounds comment bodies.
	MaxCommentTextLen = 10000
)

// ValidatePostText checks that a post body is present and within bounds.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxPostTextLen {
		return fmt.Errorf("text too long (max %d characters)", MaxPostTextLen)
	}
	return nil
}

// ValidateCommentText checks that a comment body is present and within bounds.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if len(text) > MaxCommentTextLen {
		return fmt.Errorf("comment too long (max %d characters)", MaxCommentTextLen)
	}
	return nil
}
