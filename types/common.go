package types

import "time"

type Created struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Count struct {
	Count int64 `json:"count"`
}
