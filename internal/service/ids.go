package service

import "github.com/google/uuid"

func newID() string {
	return uuid.New().String()
}

// normalizeID returns the canonical lowercase form of a uuid, or "" if s is not one.
func normalizeID(s string) string {
	id, err := uuid.Parse(s)
	if err != nil {
		return ""
	}
	return id.String()
}
