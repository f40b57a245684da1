package auth

// Claims representa la información extraída del token.
// FarmID es el tenant: toda fila de negocio pertenece a una granja.
type Claims struct {
	UserID string
	Email  string
	FarmID string
	Role   string
}
