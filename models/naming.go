// Package models contains the GORM models, schema naming helpers, and
// lifecycle hooks shared across the application
package models

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MaxIdentifierLength is the name budget shared by conservative SQL dialects.
const MaxIdentifierLength = 30

var (
	// ErrNoColumns is returned when an index name is requested for an empty
	// column list; the readable part of the name would be undefined.
	ErrNoColumns = errors.New("at least one column name is required")

	// ErrNameTooLong is returned when the composed identifier exceeds
	// MaxIdentifierLength. The generator never truncates past its fixed
	// budget; a too-long name means the suffix does not fit the scheme.
	ErrNameTooLong = errors.New("index name too long for multiple database support, is the suffix longer than 4 characters?")
)

// namesDigest hashes the given parts into a short stable hex string. md5 is
// used for stability across runs and platforms, not for security.
func namesDigest(length int, parts ...string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
	}
	digest := hex.EncodeToString(h.Sum(nil))
	if length < 0 {
		length = 0
	}
	if length < len(digest) {
		digest = digest[:length]
	}
	return digest
}

// splitIdentifier separates a possibly schema-qualified identifier into its
// qualifier and local name, stripping surrounding quotes.
func splitIdentifier(identifier string) (qualifier, name string) {
	if i := strings.LastIndex(identifier, "."); i >= 0 {
		qualifier, name = identifier[:i], identifier[i+1:]
	} else {
		name = identifier
	}
	return strings.Trim(qualifier, `"`), strings.Trim(name, `"`)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// CreateGenericIndexName derives a deterministic database object name from a
// table name, an ordered list of column references, and a purpose suffix.
//
// The name is divided into 3 parts - table name (11 chars), first column
// name (7 chars) and digest + suffix (9 chars). A leading '-' on a column
// reference marks descending order; it is stripped from the readable part
// but kept in the hashed representation, so ascending and descending
// variants of the same column set get different digests. The table name is
// lowercased and stripped of any schema qualifier before hashing; column
// names are hashed exactly as given.
//
// Names longer than MaxIdentifierLength are rejected rather than truncated,
// and a leading underscore or digit is replaced with 'D' to satisfy the
// identifier rules of stricter dialects.
func CreateGenericIndexName(tableName string, fields []string, suffix string) (string, error) {
	if len(fields) == 0 {
		return "", ErrNoColumns
	}

	_, table := splitIdentifier(strings.ToLower(tableName))

	columnNames := make([]string, len(fields))
	columnNamesWithOrder := make([]string, len(fields))
	for i, field := range fields {
		columnNames[i] = strings.TrimPrefix(field, "-")
		columnNamesWithOrder[i] = field
	}

	hashData := make([]string, 0, len(fields)+2)
	hashData = append(hashData, table)
	hashData = append(hashData, columnNamesWithOrder...)
	hashData = append(hashData, suffix)

	// The length of the parts of the name is based on the default max
	// length of 30 characters.
	name := fmt.Sprintf("%s_%s_%s_%s",
		truncate(table, 11),
		truncate(columnNames[0], 7),
		namesDigest(9-len(suffix), hashData...),
		suffix,
	)
	if len(name) > MaxIdentifierLength {
		return "", fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	if name[0] == '_' || isDigit(name[0]) {
		name = "D" + name[1:]
	}
	return name, nil
}

// CreateIndexName generates a name for a plain index over the given columns.
func CreateIndexName(tableName string, columnNames []string) (string, error) {
	return CreateGenericIndexName(tableName, columnNames, "idx")
}

// CreateUniqueConstraintName generates a name for a unique constraint over
// the given columns.
func CreateUniqueConstraintName(tableName string, columnNames []string) (string, error) {
	return CreateGenericIndexName(tableName, columnNames, "uniq")
}

// CreateLongIndexName generates an index name against a caller-supplied
// length budget, keeping every column name in the readable part. When the
// full name fits the budget it is returned untouched; otherwise the digest
// part is capped at a third of the budget and the table and column parts
// split the remainder.
func CreateLongIndexName(tableName string, columnNames []string, suffix string, maxLength int) (string, error) {
	if len(columnNames) == 0 {
		return "", ErrNoColumns
	}
	if maxLength <= 0 {
		maxLength = 200
	}

	_, table := splitIdentifier(strings.ToLower(tableName))

	hashData := make([]string, 0, len(columnNames)+1)
	hashData = append(hashData, table)
	hashData = append(hashData, columnNames...)
	hashSuffixPart := fmt.Sprintf("%s_%s", namesDigest(8, hashData...), suffix)

	joined := strings.Join(columnNames, "_")
	name := fmt.Sprintf("%s_%s_%s", table, joined, hashSuffixPart)
	if len(name) <= maxLength {
		return name, nil
	}

	// Shorten a long suffix.
	if len(hashSuffixPart) > maxLength/3 {
		hashSuffixPart = hashSuffixPart[:maxLength/3]
	}
	otherLength := (maxLength-len(hashSuffixPart))/2 - 1
	if otherLength < 0 {
		otherLength = 0
	}
	name = fmt.Sprintf("%s_%s_%s", truncate(table, otherLength), truncate(joined, otherLength), hashSuffixPart)
	// Prepend D if needed to prevent the name from starting with an
	// underscore or a number (not permitted on Oracle).
	if name[0] == '_' || isDigit(name[0]) {
		name = "D" + name[:len(name)-1]
	}
	return name, nil
}
