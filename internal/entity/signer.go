package entity

import "time"

type RegisterSignerRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

type LoginSignerRequest struct {
	SignerID string `json:"signer_id"`
	Secret   string `json:"secret"`
}

type Signer struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	SecretHash string    `json:"-" db:"secret_hash"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
