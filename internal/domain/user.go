package domain

import "time"

// User es el dueno de cero o mas sesiones. La identidad completa vive
// en el proveedor externo; aca solo lo minimo para emitir tokens y
// validar existencia del owner.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
