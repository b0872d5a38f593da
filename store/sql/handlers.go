package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func linkedAccountHandlers() repository.ModelHandlers[*linkedAccountRecord] {
	return repository.ModelHandlers[*linkedAccountRecord]{
		NewRecord: func() *linkedAccountRecord {
			return &linkedAccountRecord{}
		},
		GetID: func(record *linkedAccountRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *linkedAccountRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *linkedAccountRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func scanCursorHandlers() repository.ModelHandlers[*scanCursorRecord] {
	return repository.ModelHandlers[*scanCursorRecord]{
		NewRecord: func() *scanCursorRecord {
			return &scanCursorRecord{}
		},
		GetID: func(record *scanCursorRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *scanCursorRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *scanCursorRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
