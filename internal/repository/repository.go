// Package repository holds the GORM-backed stores used by the services.
// Lookups that find nothing return gorm.ErrRecordNotFound and unique
// violations surface as gorm.ErrDuplicatedKey (TranslateError is enabled
// on the connection).
package repository

import "strings"

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
