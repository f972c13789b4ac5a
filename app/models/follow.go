package models

import "time"

// Validate rejects incomplete and self-referencing edges.
func (f *Follow) Validate() error {
	return validateStruct(f)
}

// BeforeCreate stamps the edge creation time.
func (f *Follow) BeforeCreate() {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
}
