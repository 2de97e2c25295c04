package model

import "github.com/google/uuid"

// asignarID fills a zero primary key before insert. Postgres could default the
// column with gen_random_uuid(), but SQLite cannot, so ids are minted here.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
