package utils

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ShareCodeLength  = 6
	shareCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateShareCode draws ShareCodeLength characters uniformly from [A-Z0-9]
func GenerateShareCode() (string, error) {
	code, err := gonanoid.Generate(shareCodeCharset, ShareCodeLength)
	if err != nil {
		return "", fmt.Errorf("error generating share code: %v", err)
	}
	return code, nil
}

// AllocateUniqueShareCode keeps generating codes until exists reports one as free.
// Uniqueness is only advisory here, the unique index on insert is what decides.
func AllocateUniqueShareCode(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := GenerateShareCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// NormalizeShareCode makes lookups tolerant to casing and stray spaces
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsShareCode reports whether code has the shape of a share code
func IsShareCode(code string) bool {
	if len(code) != ShareCodeLength {
		return false
	}
	return strings.Trim(code, shareCodeCharset) == ""
}
